package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nobatyar/nobat/internal/editor"
	"github.com/nobatyar/nobat/internal/models"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Submit an appointment request",
	Long: `Fill in the appointment request form interactively and submit it.
When a session token is configured the request is tied to that account,
otherwise it is submitted anonymously.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		doctors, err := e.Client.Doctors(cmd.Context())
		if err != nil {
			return err
		}
		if len(doctors) == 0 {
			return errors.New("هیچ پزشکی ثبت نشده است")
		}

		cfg := editor.RequestConfig()
		var (
			firstName  string
			lastName   string
			nationalID string
			gender     string
			birthDate  string
			phone      string
			specialist = preselectedSpecialist(e, doctors)
		)

		specialistOptions := make([]huh.Option[string], 0, len(doctors))
		for _, d := range doctors {
			specialistOptions = append(specialistOptions, huh.NewOption(d.FullName, d.FullName))
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("نام").
					Value(&firstName).
					Validate(ruleValidator(cfg, "first_name")),
				huh.NewInput().
					Title("نام خانوادگی").
					Value(&lastName).
					Validate(ruleValidator(cfg, "last_name")),
				huh.NewInput().
					Title("کد ملی").
					Value(&nationalID).
					Validate(ruleValidator(cfg, "national_id")),
				huh.NewSelect[string]().
					Title("جنسیت").
					Options(
						huh.NewOption("مرد", models.GenderMale),
						huh.NewOption("زن", models.GenderFemale),
					).
					Value(&gender),
				huh.NewInput().
					Title("تاریخ تولد (YYYY-MM-DD)").
					Value(&birthDate).
					Validate(ruleValidator(cfg, "birth_date")),
				huh.NewInput().
					Title("شماره تماس").
					Value(&phone).
					Validate(ruleValidator(cfg, "phone")),
				huh.NewSelect[string]().
					Title("متخصص").
					Options(specialistOptions...).
					Value(&specialist),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		fields := map[string]string{
			"first_name":  firstName,
			"last_name":   lastName,
			"national_id": nationalID,
			"gender":      gender,
			"birth_date":  birthDate,
			"phone":       phone,
			"specialist":  specialist,
		}
		if userID, err := e.Client.UserID(cmd.Context()); err == nil && userID != "" {
			fields["user_id"] = userID
		}

		return newDriver(e, cfg).Create(cmd.Context(), fields)
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.Client.Requests(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("هیچ درخواستی ثبت نشده است")
			return nil
		}
		for _, r := range items {
			fmt.Printf("%s  %s %s  %s  %s\n", r.ID, r.FirstName, r.LastName, r.Phone, r.Specialist)
		}
		return nil
	},
}

// preselectedSpecialist resolves the persisted `doctor` location
// parameter to a listed doctor, matching by slug or id.
func preselectedSpecialist(e *env, doctors []models.Doctor) string {
	target := e.Nav.Get("doctor")
	if target == "" {
		return ""
	}
	for _, d := range doctors {
		if d.Slug == target || d.ID == target {
			return d.FullName
		}
	}
	return ""
}

// ruleValidator adapts a field's editor rules into a huh validator.
func ruleValidator(cfg editor.Config, key string) func(string) error {
	for _, f := range cfg.Fields {
		if f.Key != key {
			continue
		}
		rules := f.Rules
		return func(v string) error {
			for _, r := range rules {
				if !r.Check(v) {
					return errors.New(r.Message)
				}
			}
			return nil
		}
	}
	return func(string) error { return nil }
}

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.AddCommand(requestListCmd)
}
