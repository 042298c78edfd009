/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bookblitz/storefront/internal/api"
	"github.com/bookblitz/storefront/internal/list"
	"github.com/bookblitz/storefront/types"
	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the published catalog",
}

var (
	booksMaxPrice   float64
	booksCategories []string
	booksSort       string
	booksPages      int
)

var sortKeys = map[string]string{
	"newest":     api.SortNewest,
	"oldest":     api.SortOldest,
	"price-low":  api.SortPriceLow,
	"price-high": api.SortPriceHigh,
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog pages, with optional filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			sort, ok := sortKeys[booksSort]
			if !ok {
				return fmt.Errorf("unknown sort %q, pick one of newest, oldest, price-low, price-high", booksSort)
			}

			fetch := func(ctx context.Context, skip, limit int) (list.Page[types.Book], error) {
				page, err := a.public.ListBooks(ctx, api.BookQuery{
					Skip:       skip,
					Limit:      limit,
					Sort:       sort,
					MaxPrice:   booksMaxPrice,
					Categories: booksCategories,
				})
				if err != nil {
					return list.Page[types.Book]{}, err
				}
				return list.Page[types.Book]{Items: page.Books, NextSkip: page.NextSkip}, nil
			}

			pager := list.NewPager(fetch, 12, a.log)
			defer pager.Close()

			if err := pager.Refresh(ctx); err != nil {
				return err
			}
			for page := 1; page < booksPages && pager.HasMore(); page++ {
				if err := pager.LoadMore(ctx); err != nil {
					return err
				}
			}

			for _, b := range pager.Items() {
				printBookLine(b)
			}
			if pager.HasMore() {
				fmt.Println("... more available, re-run with a larger --pages")
			}
			return nil
		})
	},
}

var searchWatch bool

var booksSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles",
	Long: `Search titles. With --watch, queries are read line by line from
stdin and only fire after typing pauses, the way the storefront search
box behaves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if searchWatch {
				return watchSearch(ctx, a)
			}
			if len(args) == 0 {
				return fmt.Errorf("a query argument is required without --watch")
			}
			books, err := a.public.SearchBooks(ctx, args[0])
			if err != nil {
				return err
			}
			for _, b := range books {
				printBookLine(b)
			}
			return nil
		})
	},
}

// watchSearch reads queries from stdin and runs each one only after the
// debounce window has passed with no further input.
func watchSearch(ctx context.Context, a *app) error {
	debounce := list.NewDebouncer(list.DefaultQuiescence)
	defer debounce.Stop()

	var mu sync.Mutex
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stderr, "type a query per line, ctrl-d to quit")
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		debounce.Trigger(func() {
			books, err := a.public.SearchBooks(ctx, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
				return
			}
			fmt.Printf("-- %q --\n", query)
			for _, b := range books {
				printBookLine(b)
			}
		})
	}
	return scanner.Err()
}

var booksShowCmd = &cobra.Command{
	Use:   "show <isbn>",
	Short: "Show one book in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			b, err := a.public.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", b.Title)
			fmt.Printf("  isbn:       %s\n", b.ISBN)
			fmt.Printf("  authors:    %s\n", strings.Join(b.Authors, ", "))
			fmt.Printf("  categories: %s\n", strings.Join(b.Categories, ", "))
			fmt.Printf("  price:      %.2f\n", b.Price)
			fmt.Printf("  pages:      %d\n", b.PageCount)
			fmt.Printf("  published:  %s\n", b.PublishedDate)
			if b.ShortDescription != "" {
				fmt.Printf("\n%s\n", b.ShortDescription)
			}
			return nil
		})
	},
}

var booksLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest arrivals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			books, err := a.public.LatestBooks(ctx)
			if err != nil {
				return err
			}
			for _, b := range books {
				printBookLine(b)
			}
			return nil
		})
	},
}

var booksBannersCmd = &cobra.Command{
	Use:   "banners",
	Short: "Show the homepage banner slider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			banners, err := a.public.BannerSlider(ctx)
			if err != nil {
				return err
			}
			for _, bn := range banners {
				fmt.Printf("%s: %s (%s)\n", bn.Title, bn.Subtitle, bn.Link)
			}
			return nil
		})
	},
}

var requestTitle, requestAuthor, requestNote string

var booksRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask the store to carry a title",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			who, err := a.identity()
			if err != nil {
				return err
			}
			err = a.backend.RequestBook(ctx, types.BookRequest{
				Name:   who.DisplayName,
				Email:  who.Email,
				Title:  requestTitle,
				Author: requestAuthor,
				Note:   requestNote,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Requested %q\n", requestTitle)
			return nil
		})
	},
}

func printBookLine(b types.Book) {
	fmt.Printf("%-14s %-40s %8.2f  %s\n", b.ISBN, b.Title, b.Price, strings.Join(b.Authors, ", "))
}

func init() {
	booksListCmd.Flags().Float64Var(&booksMaxPrice, "max-price", 0, "only show books at or below this price")
	booksListCmd.Flags().StringSliceVar(&booksCategories, "category", nil, "filter by category, repeatable")
	booksListCmd.Flags().StringVar(&booksSort, "sort", "oldest", "sort order: newest, oldest, price-low, price-high")
	booksListCmd.Flags().IntVar(&booksPages, "pages", 1, "number of 12-book pages to fetch")

	booksSearchCmd.Flags().BoolVar(&searchWatch, "watch", false, "read queries from stdin with debounce")

	booksRequestCmd.Flags().StringVar(&requestTitle, "title", "", "requested title")
	booksRequestCmd.Flags().StringVar(&requestAuthor, "author", "", "requested author")
	booksRequestCmd.Flags().StringVar(&requestNote, "note", "", "free-form note")
	booksRequestCmd.MarkFlagRequired("title")

	booksCmd.AddCommand(booksListCmd, booksSearchCmd, booksShowCmd, booksLatestCmd, booksBannersCmd, booksRequestCmd)
	rootCmd.AddCommand(booksCmd)
}
