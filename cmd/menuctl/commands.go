package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shinyyama/cafe-menu/internal/menuclient"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/service"
	"github.com/shinyyama/cafe-menu/internal/viewstate"
	"github.com/spf13/cobra"
)

type cli struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func (c *cli) client() *menuclient.Client {
	return menuclient.New(c.apiURL, menuclient.WithToken(c.token))
}

func newRootCmd(e Env) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "Manage the café menu",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", e.APIURL, "base URL of the menu API")
	root.PersistentFlags().StringVar(&c.token, "token", e.Token, "admin ID token")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		c.menuCmd(),
		c.listCmd(),
		c.getCmd(),
		c.statsCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.uploadCmd(),
	)
	return root
}

// run drives one request through the view state machine, showing progress
// on stderr and turning a Failed state into the command's error.
func run[T any](cmd *cobra.Command, c *cli, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	s := viewstate.Load(ctx, func(s viewstate.State[T]) {
		switch s.Kind() {
		case viewstate.Loading:
			fmt.Fprintln(stderr, "loading...")
		case viewstate.Failed:
			msg, _ := s.Message()
			fmt.Fprintf(stderr, "error: %s\n", msg)
		}
	}, fn)

	if data, ok := s.Data(); ok {
		return data, nil
	}
	msg, _ := s.Message()
	var zero T
	return zero, errors.New(msg)
}

func (c *cli) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu [query]",
		Short: "Show the public menu, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			menu, err := run(cmd, c, func(ctx context.Context) (*service.PublicMenu, error) {
				return c.client().GetPublicMenu(ctx, query)
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if query != "" {
				fmt.Fprintf(out, "%d result(s) for %q\n", len(menu.Results), query)
				printItems(out, menu.Results)
				return nil
			}
			if len(menu.Sections) == 0 {
				fmt.Fprintln(out, "no products available")
			}
			for _, sec := range menu.Sections {
				fmt.Fprintf(out, "\n== %s ==\n", sec.Category)
				for _, it := range sec.Items {
					fmt.Fprintf(out, "  %-32s €%.2f\n", it.Name, it.Price)
				}
			}
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List menu items, optionally filtered by name/description and category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			items, err := run(cmd, c, func(ctx context.Context) ([]model.MenuItem, error) {
				return c.client().FindMenuItems(ctx, query, category)
			})
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only items of this category")
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := run(cmd, c, func(ctx context.Context) (*model.MenuItem, error) {
				return c.client().GetMenuItem(ctx, args[0])
			})
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), []model.MenuItem{*item})
			return nil
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := run(cmd, c, c.client().GetStats)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "products:   %d\n", stats.TotalProducts)
			fmt.Fprintf(out, "active:     %d\n", stats.ActiveProducts)
			fmt.Fprintf(out, "categories: %d\n", stats.CategoriesWithProducts)
			for _, cat := range model.Categories {
				fmt.Fprintf(out, "  %-18s %d\n", cat, stats.ProductsByCategory[cat.String()])
			}
			return nil
		},
	}
}

// itemFlags binds the editable fields. Only flags the user set end up in
// the request body.
type itemFlags struct {
	name, description, category, imageURL string
	price                                 float64
	available                             bool
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "item name")
	fl.StringVar(&f.description, "description", "", "item description")
	fl.Float64Var(&f.price, "price", 0, "price in euros")
	fl.StringVar(&f.category, "category", "", "one of: Desayunos, Bebidas Calientes, Bebidas Frías, Postres")
	fl.StringVar(&f.imageURL, "image-url", "", "public image URL")
	fl.BoolVar(&f.available, "available", true, "whether the item is shown on the public menu")
}

func (f *itemFlags) fields(cmd *cobra.Command) menuclient.MenuItemFields {
	var out menuclient.MenuItemFields
	fl := cmd.Flags()
	if fl.Changed("name") {
		out.Name = &f.name
	}
	if fl.Changed("description") {
		out.Description = &f.description
	}
	if fl.Changed("price") {
		out.Price = &f.price
	}
	if fl.Changed("category") {
		out.Category = &f.category
	}
	if fl.Changed("image-url") {
		out.ImageURL = &f.imageURL
	}
	if fl.Changed("available") {
		out.IsAvailable = &f.available
	}
	return out
}

func (c *cli) addCmd() *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := f.fields(cmd)
			id, err := run(cmd, c, func(ctx context.Context) (string, error) {
				return c.client().AddMenuItem(ctx, fields)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := f.fields(cmd)
			_, err := run(cmd, c, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, c.client().UpdateMenuItem(ctx, args[0], fields)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(cmd, c, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, c.client().DeleteMenuItem(ctx, args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func (c *cli) uploadCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			name := filepath.Base(args[0])
			url, err := run(cmd, c, func(ctx context.Context) (string, error) {
				return c.client().UploadImage(ctx, path, name, mime.TypeByExtension(filepath.Ext(name)), f)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "items", "folder inside the bucket")
	return cmd
}

func printItems(w io.Writer, items []model.MenuItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tAVAILABLE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", it.ID, it.Name, it.Category, it.Price, strconv.FormatBool(it.IsAvailable))
	}
	tw.Flush()
}
