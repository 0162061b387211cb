package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/dataurl"
	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Manage listed doctors",
}

var doctorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List doctors",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.Client.Doctors(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("هیچ پزشکی ثبت نشده است")
			return nil
		}
		for _, d := range items {
			category := ""
			if d.Category != nil {
				category = d.Category.Name
			}
			fmt.Printf("%s  %s  %s  %s\n", d.ID, d.FullName, d.Slug, category)
		}
		return nil
	},
}

var doctorShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show a doctor's public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		record, err := e.Client.FetchBySlug(cmd.Context(), models.TableDoctor, args[0])
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("پزشک یافت نشد")
		}

		name, _ := record["full_name"].(string)
		code, _ := record["medical_code"].(string)
		fmt.Printf("%s\n", name)
		if code != "" {
			fmt.Printf("کد نظام پزشکی: %s\n", code)
		}

		if description, _ := record["description"].(string); description != "" {
			rendered, err := glamour.Render(description, "dark")
			if err != nil {
				rendered = description
			}
			fmt.Println(rendered)
		}

		if docs, ok := record["documents"].([]any); ok && len(docs) > 0 {
			fmt.Println("مدارک:")
			for _, doc := range docs {
				if s, ok := doc.(string); ok {
					fmt.Printf("  • %s\n", s)
				}
			}
		}
		return nil
	},
}

var doctorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a doctor",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		fields, err := doctorFields(cmd)
		if err != nil {
			return err
		}
		return newDriver(e, editor.DoctorConfig()).Create(cmd.Context(), fields)
	},
}

var doctorUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		fields, err := doctorFields(cmd)
		if err != nil {
			return err
		}
		return newDriver(e, editor.DoctorConfig()).Update(cmd.Context(), args[0], fields)
	},
}

var doctorDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		return deleteRecord(cmd.Context(), e, models.TableDoctor, args[0],
			cache.TagDoctorList, "پزشک با موفقیت حذف شد")
	},
}

// doctorFields builds the changed-field map. --document may repeat; the
// entries join into the newline-separated textarea form the editor
// splits on submit.
func doctorFields(cmd *cobra.Command) (map[string]string, error) {
	fields := collectChanged(cmd, map[string]string{
		"name":        "full_name",
		"slug":        "slug",
		"code":        "medical_code",
		"category":    "category_id",
		"description": "description",
	})
	if cmd.Flags().Changed("image") {
		path, _ := cmd.Flags().GetString("image")
		dataURL, err := dataurl.FromFile(path)
		if err != nil {
			return nil, err
		}
		fields["image"] = dataURL
	}
	if cmd.Flags().Changed("document") {
		docs, _ := cmd.Flags().GetStringArray("document")
		fields["documents"] = strings.Join(docs, "\n")
	}
	return fields, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.AddCommand(doctorListCmd)
	doctorCmd.AddCommand(doctorShowCmd)
	doctorCmd.AddCommand(doctorAddCmd)
	doctorCmd.AddCommand(doctorUpdateCmd)
	doctorCmd.AddCommand(doctorDeleteCmd)

	for _, c := range []*cobra.Command{doctorAddCmd, doctorUpdateCmd} {
		c.Flags().String("name", "", "doctor full name (Persian)")
		c.Flags().String("slug", "", "URL slug (derived from the name when omitted)")
		c.Flags().String("image", "", "path to the profile image")
		c.Flags().String("code", "", "medical council code")
		c.Flags().String("category", "", "category id")
		c.Flags().String("description", "", "profile description (markdown)")
		c.Flags().StringArray("document", nil, "credential line (repeatable)")
	}
}
