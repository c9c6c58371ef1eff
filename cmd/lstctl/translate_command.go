package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"lstbot/internal/builder"
	"lstbot/internal/domain"
	"lstbot/internal/normalizer"
	"lstbot/internal/resolver"
	"lstbot/internal/service"

	"github.com/spf13/cobra"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var maxLen int

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text into a sign sequence",
		Long:  "Translate text into a sign sequence. Text is read from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := domain.ParseLanguage(langFlag)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			lex, err := ctx.lexicon()
			if err != nil {
				return err
			}
			signs, err := ctx.catalog()
			if err != nil {
				return err
			}

			svc := service.NewTranslationService(
				normalizer.New(lex),
				resolver.New(lex),
				builder.New(signs, maxLen, ctx.log()),
				nil,
				ctx.log(),
			)
			outcome := svc.Translate(0, text, lang)

			if ctx.useJSON(cmd.OutOrStdout()) {
				return writeJSON(cmd, outcome.Result)
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "lang", "l", string(domain.PivotLanguage), "Source language (fr, en, ar, tn)")
	cmd.Flags().IntVar(&maxLen, "max", builder.DefaultMaxSequence, "Maximum number of signs")

	return cmd
}

func printOutcome(out io.Writer, outcome *service.Outcome) {
	slots := outcome.Match.Ordered()
	if len(slots) > 0 {
		rows := make([][]string, 0, len(slots))
		for i, slot := range slots {
			sign, file, duration := "-", "-", "-"
			if slot.Sign != nil {
				sign = slot.Sign.ID
				file = slot.Sign.File
				duration = strconv.FormatFloat(slot.Sign.DurationSeconds(), 'f', 1, 64) + "s"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), slot.Surface, sign, file, duration})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Word", "Sign", "File", "Duration"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	result := outcome.Result
	fmt.Fprintln(out, result.Message)
	if len(result.MissingWords) > 0 {
		fmt.Fprintf(out, "Missing: %s\n", strings.Join(result.MissingWords, ", "))
	}
	if result.TotalDurationSeconds > 0 {
		fmt.Fprintf(out, "Total: %.1fs\n", result.TotalDurationSeconds)
	}
}
