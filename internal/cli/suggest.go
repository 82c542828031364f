package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shiyuanpei/aicommit/internal/git"
	"github.com/shiyuanpei/aicommit/internal/parser"
	"github.com/shiyuanpei/aicommit/internal/prompt"
)

// SuggestResult is the machine-readable output of the suggest command.
type SuggestResult struct {
	Backend       string    `json:"backend" yaml:"backend"`
	Model         string    `json:"model" yaml:"model"`
	Staged        bool      `json:"staged" yaml:"staged"`
	DiffTruncated bool      `json:"diff_truncated" yaml:"diff_truncated"`
	Candidates    []string  `json:"candidates" yaml:"candidates"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
}

// Text outputs the result as a numbered human-readable list.
func (r *SuggestResult) Text(w io.Writer) error {
	for i, c := range r.Candidates {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, c); err != nil {
			return err
		}
	}
	return nil
}

func newSuggestCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print candidate commit messages without committing",
		Long: `Suggest runs the generation pipeline but skips selection and commit,
printing the candidates instead. Useful for scripting and editor
integrations that want to choose a message themselves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := git.FindProjectRoot(".")
			if err != nil {
				return err
			}

			gen, err := newGenerator(cfg)
			if err != nil {
				return err
			}

			cs, err := git.NewService(root).Diff(cmd.Context())
			if err != nil {
				return err
			}

			pr := prompt.Build(cs, cfg.Candidates, cfg.MaxChars, cfg.DiffLimit)
			raw, err := gen.Generate(cmd.Context(), pr.Text)
			if err != nil {
				return err
			}
			candidates, err := parser.Parse(raw, pr.Candidates, pr.MaxChars)
			if err != nil {
				return err
			}

			result := &SuggestResult{
				Backend:       cfg.Backend,
				Model:         cfg.Active().Model,
				Staged:        cs.Staged,
				DiffTruncated: pr.DiffTruncated,
				Candidates:    parser.Texts(candidates),
				Timestamp:     time.Now().UTC(),
			}

			switch output {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "yaml":
				return yaml.NewEncoder(os.Stdout).Encode(result)
			case "text":
				return result.Text(os.Stdout)
			default:
				return fmt.Errorf("unknown output format %q (want text, json, or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json|yaml)")
	return cmd
}
