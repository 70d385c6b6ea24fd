package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/logger"
	"github.com/vladimiradmaev/carb-calculator/internal/services"
	"github.com/vladimiradmaev/carb-calculator/internal/utils"
)

const dateLayout = "2006-01-02 15:04"

func configCmd(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change dosing settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show carb ratio, sensitivity and target",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			printConfig(cmd, a.Settings.Get(ctx))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [ratio] [sensitivity] [target]",
		Short: "Replace all three settings",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			cfg, err := a.Settings.SetFromText(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		}),
	})

	return cmd
}

func printConfig(cmd *cobra.Command, cfg domain.UserConfig) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ratio:       %s g/u\n", domain.FormatAmount(cfg.Ratio))
	fmt.Fprintf(out, "sensitivity: %s mg/dL/u\n", domain.FormatAmount(cfg.Sensitivity))
	fmt.Fprintf(out, "target:      %s mg/dL\n", domain.FormatAmount(cfg.Target))
}

func foodCmd(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Manage the food table",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name...] [carbs-per-100g]",
		Short: "Add a food or update its carbs",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			name, carbs, _ := utils.SplitNameAndNumber(strings.Join(args, " "))
			food, err := a.Catalog.UpsertFromText(ctx, name, carbs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %sg per 100g\n", food.Name, domain.FormatAmount(food.CarbsPer100g))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known foods",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			foods := a.Catalog.List(ctx)
			if len(foods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No foods yet. Use 'carbcalc food add' to create one.")
				return nil
			}
			for i, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-24s %sg\n", i+1, f.Name, domain.FormatAmount(f.CarbsPer100g))
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit [position] [name...] [carbs-per-100g]",
		Short: "Rename a food or change its carbs",
		Args:  cobra.MinimumNArgs(3),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			index, err := utils.ParseIndex(args[0])
			if err != nil {
				return err
			}
			name, carbsText, _ := utils.SplitNameAndNumber(strings.Join(args[1:], " "))
			carbs, err := utils.ParseNumber(carbsText)
			if err != nil {
				return err
			}
			food, err := a.Catalog.Edit(ctx, index, name, carbs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: %sg per 100g\n", food.Name, domain.FormatAmount(food.CarbsPer100g))
			return nil
		}),
	})

	var yes bool
	remove := &cobra.Command{
		Use:   "remove [name...]",
		Short: "Delete a food by its exact name",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			name := strings.Join(args, " ")
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete %s from the food table?", name))
			if err != nil || !ok {
				return err
			}
			if err := a.Catalog.Remove(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			return nil
		}),
	}
	remove.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(remove)

	return cmd
}

func sessionCmd(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the meal being logged",
	}

	var carbs string
	add := &cobra.Command{
		Use:   "add [name...] [weight]",
		Short: "Log a portion; carbs come from the food table unless --carbs is given",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			name, weight, _ := utils.SplitNameAndNumber(strings.Join(args, " "))
			entry, err := a.Session.AddEntryFromText(ctx, name, carbs, weight)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %sg (%sg carbs)\n",
				entry.Name, domain.FormatAmount(entry.Weight), domain.FormatCarbs(entry.Carbs))
			return nil
		}),
	}
	add.Flags().StringVarP(&carbs, "carbs", "c", "", "carbs per 100 g")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List logged portions",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			entries := a.Session.List(ctx)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The meal is empty.")
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-24s %6sg  %sg/100g  %sg carbs\n",
					i+1, e.Name, domain.FormatAmount(e.Weight), domain.FormatAmount(e.CarbsPer100g), domain.FormatCarbs(e.Carbs))
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [position]",
		Short: "Delete a logged portion",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			index, err := utils.ParseIndex(args[0])
			if err != nil {
				return err
			}
			return a.Session.RemoveEntry(ctx, index)
		}),
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every logged portion",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			ok, err := confirm(cmd, yes, "Clear the current meal?")
			if err != nil || !ok {
				return err
			}
			return a.Session.Clear(ctx)
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(clearCmd)

	return cmd
}

func totalsCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show carbs and insulin for the current meal",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			dose := a.Totals(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "carbs:      %sg\n", domain.FormatCarbs(dose.TotalCarbs))
			fmt.Fprintf(cmd.OutOrStdout(), "meal bolus: %su\n", domain.FormatUnits(dose.MealBolus))
			fmt.Fprintf(cmd.OutOrStdout(), "correction: %su\n", domain.FormatUnits(dose.CorrectionBolus))
			fmt.Fprintf(cmd.OutOrStdout(), "total:      %su\n", domain.FormatUnits(dose.TotalInsulin))
			return nil
		}),
	}
}

func glucoseCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "glucose [mg/dL]",
		Short: "Submit a reading, save the meal to history and start a new one",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			record, ok, err := a.SubmitGlucose(ctx, args[0])
			if err != nil && ok {
				fmt.Fprintln(cmd.OutOrStdout(), services.FormatShare(record.Dose(), record.Foods))
				return errors.New(apperrors.UserMessage(err))
			}
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save: the meal is empty.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), services.FormatShare(record.Dose(), record.Foods))
			return nil
		}),
	}
}

func historyCmd(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or edit saved meals",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved meals, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			records := a.History.List(ctx)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meals saved yet.")
				return nil
			}
			for i, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s  carbs %sg  glucose %s  meal %su  correction %su  total %su\n",
					i+1, r.Date.In(time.Local).Format(dateLayout), domain.FormatCarbs(r.TotalCarbs), r.Glucose,
					domain.FormatUnits(r.MealBolus), domain.FormatUnits(r.CorrectionBolus), domain.FormatUnits(r.TotalInsulin))
			}
			return nil
		}),
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	cmd.AddCommand(list)

	var yesRemove bool
	remove := &cobra.Command{
		Use:   "remove [position]",
		Short: "Delete one saved meal",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			index, err := utils.ParseIndex(args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, yesRemove, fmt.Sprintf("Delete meal %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			return a.History.Remove(ctx, index)
		}),
	}
	remove.Flags().BoolVarP(&yesRemove, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(remove)

	var yesClear bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved meal",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			ok, err := confirm(cmd, yesClear, "Delete all saved meals?")
			if err != nil || !ok {
				return err
			}
			return a.History.ClearAll(ctx)
		}),
	}
	clearCmd.Flags().BoolVarP(&yesClear, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(clearCmd)

	return cmd
}

func shareCmd(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Print the current meal as shareable text",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.ShareText(ctx))
			return nil
		}),
	}
}

func estimateCmd(flags *storageFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "estimate [food...]",
		Short: "Ask an AI provider for a carbs-per-100g suggestion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ai, err := services.NewAIService(ctx, cfg.GeminiAPIKey, cfg.OpenAIAPIKey,
				logger.New(cmd.ErrOrStderr(), logger.Config{Level: logger.LevelWarn, Format: "text"}))
			if err != nil {
				return err
			}
			defer ai.Close()

			food := strings.Join(args, " ")
			v, err := ai.EstimateCarbsPer100g(ctx, food)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: about %sg carbs per 100g (suggestion, not saved)\n", food, domain.FormatAmount(v))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "provider timeout")
	return cmd
}
