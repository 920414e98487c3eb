package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/backlogmd/internal/ui/pretty"
	"github.com/yaklabco/backlogmd/pkg/notation"
)

const formatJSON = "json"

// Rule stages, in application order.
const (
	stageStructural = "structural"
	stageInline     = "inline"
)

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Stage       string `json:"stage"`
	Order       int    `json:"order"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rulesFlags struct {
	format string
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List conversion rules",
		Long: `List the structural rules and the inline substitution rules in the
order the converter applies them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := collectRules()

			switch flags.format {
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			case "", "text":
				colorMode, err := cmd.Flags().GetString("color")
				if err != nil {
					colorMode = "auto"
				}
				styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
				outputRulesText(cmd.OutOrStdout(), styles, infos)
				return nil
			default:
				return fmt.Errorf("%w: invalid format %q; must be text or json", ErrUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

// collectRules lists every rule with its stage and position.
func collectRules() []ruleInfo {
	layout := notation.New(notation.Options{}).LayoutRules()
	inline := notation.InlineRules()

	infos := make([]ruleInfo, 0, len(layout)+len(inline))
	add := func(stage string, rules []notation.Rule) {
		for i, rule := range rules {
			infos = append(infos, ruleInfo{
				Stage:       stage,
				Order:       i + 1,
				Name:        rule.Name,
				Description: rule.Description,
			})
		}
	}
	add(stageStructural, layout)
	add(stageInline, inline)

	return infos
}

func outputRulesText(w io.Writer, styles *pretty.Styles, infos []ruleInfo) {
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Name))
	}

	stage := ""
	for _, info := range infos {
		if info.Stage != stage {
			if stage != "" {
				fmt.Fprintln(w)
			}
			stage = info.Stage
			fmt.Fprintln(w, styles.Section.Render(stageTitle(stage)))
		}
		fmt.Fprintf(w, "  %s %s  %s\n",
			styles.Dim.Render(fmt.Sprintf("%2d.", info.Order)),
			styles.RuleName.Render(fmt.Sprintf("%-*s", width, info.Name)),
			styles.Message.Render(info.Description),
		)
	}
}

func stageTitle(stage string) string {
	if stage == stageInline {
		return "Inline rules"
	}
	return "Structural rules"
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
