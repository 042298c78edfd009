/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookblitz/storefront/internal/guard"
	"github.com/bookblitz/storefront/types"
	"github.com/spf13/cobra"
)

var librarianCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Librarian dashboard: manage your listings and shipments",
}

// librarianGuard admits librarians and admins, matching the dashboard.
var librarianGuard = guard.Chain(
	guard.RequireAuth(),
	guard.RequireRole(types.RoleLibrarian, types.RoleAdmin),
)

var (
	addBookISBN       string
	addBookTitle      string
	addBookAuthors    []string
	addBookCategories []string
	addBookPrice      float64
	addBookPages      int
	addBookPublished  string
	addBookShortDesc  string
	addBookLongDesc   string
	addBookImage      string
)

var librarianAddBookCmd = &cobra.Command{
	Use:   "add-book",
	Short: "Create a new listing",
	Long: `Create a new listing. The cover image is uploaded to the image
proxy first and its URL is stored as the thumbnail. New listings start
unpublished.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, librarianGuard); err != nil {
				return err
			}
			who, err := a.identity()
			if err != nil {
				return err
			}

			thumbnail := ""
			if addBookImage != "" {
				img, err := os.Open(addBookImage)
				if err != nil {
					return fmt.Errorf("open cover image: %w", err)
				}
				defer img.Close()
				thumbnail, err = a.uploads.Upload(ctx, filepath.Base(addBookImage), img)
				if err != nil {
					return fmt.Errorf("upload cover image: %w", err)
				}
			}

			err = a.backend.CreateBook(ctx, types.Book{
				Title:            addBookTitle,
				ISBN:             addBookISBN,
				Authors:          addBookAuthors,
				Categories:       addBookCategories,
				Price:            addBookPrice,
				PageCount:        addBookPages,
				PublishedDate:    addBookPublished,
				ThumbnailURL:     thumbnail,
				ShortDescription: addBookShortDesc,
				LongDescription:  addBookLongDesc,
				Status:           types.BookStatusUnpublished,
				LibrarianEmail:   who.Email,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created %q (unpublished)\n", addBookTitle)
			return nil
		})
	},
}

var (
	updateBookTitle      string
	updateBookAuthors    []string
	updateBookCategories []string
	updateBookPrice      float64
	updateBookPages      int
	updateBookPublished  string
	updateBookShortDesc  string
	updateBookLongDesc   string
	updateBookImage      string
)

var librarianUpdateBookCmd = &cobra.Command{
	Use:   "update-book <book-id>",
	Short: "Edit one of your listings",
	Long: `Edit one of your listings. Only the flags you pass change; the
listing is re-sent wholesale, so every other field keeps its value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, librarianGuard); err != nil {
				return err
			}
			who, err := a.identity()
			if err != nil {
				return err
			}

			books, err := a.backend.LibrarianBooks(ctx, who.Email)
			if err != nil {
				return err
			}
			var book types.Book
			found := false
			for _, b := range books {
				if b.ID == args[0] {
					book = b
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("listing %s not found among your books", args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				book.Title = updateBookTitle
			}
			if flags.Changed("author") {
				book.Authors = updateBookAuthors
			}
			if flags.Changed("category") {
				book.Categories = updateBookCategories
			}
			if flags.Changed("price") {
				book.Price = updateBookPrice
			}
			if flags.Changed("page-count") {
				book.PageCount = updateBookPages
			}
			if flags.Changed("published") {
				book.PublishedDate = updateBookPublished
			}
			if flags.Changed("short-description") {
				book.ShortDescription = updateBookShortDesc
			}
			if flags.Changed("long-description") {
				book.LongDescription = updateBookLongDesc
			}
			if updateBookImage != "" {
				img, err := os.Open(updateBookImage)
				if err != nil {
					return fmt.Errorf("open cover image: %w", err)
				}
				defer img.Close()
				book.ThumbnailURL, err = a.uploads.Upload(ctx, filepath.Base(updateBookImage), img)
				if err != nil {
					return fmt.Errorf("upload cover image: %w", err)
				}
			}

			ack, err := a.backend.UpdateBook(ctx, book.ID, book)
			if err != nil {
				return err
			}
			if ack.ModifiedCount == 0 {
				return fmt.Errorf("book %s was not changed", args[0])
			}
			fmt.Printf("Updated %q\n", book.Title)
			return nil
		})
	},
}

var librarianBooksCmd = &cobra.Command{
	Use:   "my-books",
	Short: "List your own listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, librarianGuard); err != nil {
				return err
			}
			who, err := a.identity()
			if err != nil {
				return err
			}
			books, err := a.backend.LibrarianBooks(ctx, who.Email)
			if err != nil {
				return err
			}
			for _, b := range books {
				fmt.Printf("%-26s %-14s %-40s %s\n", b.ID, b.ISBN, b.Title, b.Status)
			}
			return nil
		})
	},
}

func setStatusCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <book-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.authorize(ctx, librarianGuard); err != nil {
					return err
				}
				ack, err := a.backend.SetBookStatusLibrarian(ctx, args[0], status)
				if err != nil {
					return err
				}
				if ack.ModifiedCount == 0 {
					return fmt.Errorf("book %s was not changed", args[0])
				}
				fmt.Printf("Book is now %s\n", status)
				return nil
			})
		},
	}
}

var librarianOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders for your listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, librarianGuard); err != nil {
				return err
			}
			who, err := a.identity()
			if err != nil {
				return err
			}
			orders, err := a.backend.LibrarianOrders(ctx, who.Email)
			if err != nil {
				return err
			}
			for _, o := range orders {
				fmt.Printf("%-26s %-40s %-24s %s/%s\n", o.ID, o.Title, o.Email, o.Status, o.Fulfillment)
			}
			return nil
		})
	},
}

func setFulfillmentCmd(use, short, state string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.authorize(ctx, librarianGuard); err != nil {
					return err
				}
				ack, err := a.backend.SetFulfillment(ctx, args[0], state)
				if err != nil {
					return err
				}
				if ack.ModifiedCount == 0 {
					return fmt.Errorf("order %s was not changed", args[0])
				}
				fmt.Printf("Order marked %s\n", state)
				return nil
			})
		},
	}
}

func init() {
	librarianAddBookCmd.Flags().StringVar(&addBookISBN, "isbn", "", "ISBN of the new listing")
	librarianAddBookCmd.Flags().StringVar(&addBookTitle, "title", "", "title of the new listing")
	librarianAddBookCmd.Flags().StringSliceVar(&addBookAuthors, "author", nil, "author name, repeatable")
	librarianAddBookCmd.Flags().StringSliceVar(&addBookCategories, "category", nil, "category label, repeatable")
	librarianAddBookCmd.Flags().Float64Var(&addBookPrice, "price", 0, "sale price")
	librarianAddBookCmd.Flags().IntVar(&addBookPages, "page-count", 0, "number of pages")
	librarianAddBookCmd.Flags().StringVar(&addBookPublished, "published", "", "publication date, RFC 3339")
	librarianAddBookCmd.Flags().StringVar(&addBookShortDesc, "short-description", "", "card blurb")
	librarianAddBookCmd.Flags().StringVar(&addBookLongDesc, "long-description", "", "detail page description")
	librarianAddBookCmd.Flags().StringVar(&addBookImage, "image", "", "path to the cover image")
	librarianAddBookCmd.MarkFlagRequired("isbn")
	librarianAddBookCmd.MarkFlagRequired("title")

	librarianUpdateBookCmd.Flags().StringVar(&updateBookTitle, "title", "", "new title")
	librarianUpdateBookCmd.Flags().StringSliceVar(&updateBookAuthors, "author", nil, "replacement author list, repeatable")
	librarianUpdateBookCmd.Flags().StringSliceVar(&updateBookCategories, "category", nil, "replacement category list, repeatable")
	librarianUpdateBookCmd.Flags().Float64Var(&updateBookPrice, "price", 0, "new sale price")
	librarianUpdateBookCmd.Flags().IntVar(&updateBookPages, "page-count", 0, "new page count")
	librarianUpdateBookCmd.Flags().StringVar(&updateBookPublished, "published", "", "new publication date, RFC 3339")
	librarianUpdateBookCmd.Flags().StringVar(&updateBookShortDesc, "short-description", "", "new card blurb")
	librarianUpdateBookCmd.Flags().StringVar(&updateBookLongDesc, "long-description", "", "new detail page description")
	librarianUpdateBookCmd.Flags().StringVar(&updateBookImage, "image", "", "path to a new cover image")

	librarianCmd.AddCommand(
		librarianAddBookCmd,
		librarianUpdateBookCmd,
		librarianBooksCmd,
		setStatusCmd("publish", "Publish one of your listings", types.BookStatusPublished),
		setStatusCmd("unpublish", "Unpublish one of your listings", types.BookStatusUnpublished),
		librarianOrdersCmd,
		setFulfillmentCmd("ship", "Mark an order shipped", types.FulfillmentShipped),
		setFulfillmentCmd("deliver", "Mark an order delivered", types.FulfillmentDelivered),
	)
	rootCmd.AddCommand(librarianCmd)
}
