/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/bookblitz/storefront/cmd"

func main() {
	cmd.Execute()
}
