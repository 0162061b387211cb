package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/dataurl"
	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage specialty categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.Client.Categories(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("هیچ دسته‌بندی ثبت نشده است")
			return nil
		}
		for _, c := range items {
			fmt.Printf("%s  %s  %s\n", c.ID, c.Name, c.Slug)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		fields, err := categoryFields(cmd)
		if err != nil {
			return err
		}
		return newDriver(e, editor.CategoryConfig()).Create(cmd.Context(), fields)
	},
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		fields, err := categoryFields(cmd)
		if err != nil {
			return err
		}
		return newDriver(e, editor.CategoryConfig()).Update(cmd.Context(), args[0], fields)
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		return deleteRecord(cmd.Context(), e, models.TableCategory, args[0],
			cache.TagCategoryList, "دسته‌بندی با موفقیت حذف شد")
	},
}

// categoryFields builds the changed-field map, converting --image from a
// file path into a data URL.
func categoryFields(cmd *cobra.Command) (map[string]string, error) {
	fields := collectChanged(cmd, map[string]string{
		"name": "name",
		"slug": "slug",
	})
	if cmd.Flags().Changed("image") {
		path, _ := cmd.Flags().GetString("image")
		dataURL, err := dataurl.FromFile(path)
		if err != nil {
			return nil, err
		}
		fields["image"] = dataURL
	}
	return fields, nil
}

// deleteRecord removes a row and invalidates its cache tags.
func deleteRecord(ctx context.Context, e *env, table, id, listTag, toast string) error {
	if err := e.Client.DeleteRow(ctx, table, id); err != nil {
		return err
	}
	e.Cache.Invalidate(listTag)
	e.Cache.Invalidate(cache.DetailTag(table, id))
	fmt.Println(toast)
	return nil
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryUpdateCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)

	for _, c := range []*cobra.Command{categoryAddCmd, categoryUpdateCmd} {
		c.Flags().String("name", "", "category name (Persian)")
		c.Flags().String("slug", "", "URL slug (derived from the name when omitted)")
		c.Flags().String("image", "", "path to the category image")
	}
}
