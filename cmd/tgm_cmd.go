package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dzjyyds666/tgmq/parse"
	"github.com/dzjyyds666/tgmq/parse/tgm"
	"github.com/dzjyyds666/tgmq/pkg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type TgmParams struct {
	Find    string   `json:"find"`                                        // path to print, e.g. nodes.0.geometry
	Input   string   `json:"input" validate:"required"`                   // input file path
	Output  string   `json:"output"`                                      // output file path, stdout when empty
	Format  string   `json:"format" validate:"oneof=yaml json summary"`   // output format
	Comment []string `json:"comment" validate:"omitempty,dive,required"` // comment delimiters
	Strict  bool     `json:"strict"`                                      // fail on malformed lines
	Watch   bool     `json:"watch"`                                       // re-parse when the input changes
}

var validate = validator.New()

func newTgmCmd() *cobra.Command {
	params := &TgmParams{}

	tgmCmd := &cobra.Command{
		Use:   "tgm [file]",
		Short: "tgm parse tools",
		Long: `Parse a TGM tire file and print the decoded model.

Unknown sections and keys are ignored. Lines that are neither a [Section]
header nor Key=Value are skipped unless --strict is given.`,
		Example: `  # Print the whole model as YAML
  tgmq tgm -i rTrainer_Tires.tgm

  # Print one value
  tgmq tgm -i rTrainer_Tires.tgm -f nodes.0.plies.0.params

  # Summarise and keep re-reading while the file is edited
  tgmq tgm rTrainer_Tires.tgm --format summary --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := *params
			p.Format = viper.GetString("tgm.format")
			p.Strict = viper.GetBool("tgm.strict")
			if p.Input == "" && len(args) > 0 {
				p.Input = args[0]
			}
			return tgmRun(cmd, &p)
		},
	}

	tgmCmd.Flags().StringVarP(&params.Find, "find", "f", "", "find")
	tgmCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	tgmCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	tgmCmd.Flags().String("format", "yaml", "output format: yaml, json or summary")
	tgmCmd.Flags().StringSliceVar(&params.Comment, "comment", nil, "comment delimiters (default // and ;)")
	tgmCmd.Flags().Bool("strict", false, "fail on malformed lines instead of skipping them")
	tgmCmd.Flags().BoolVarP(&params.Watch, "watch", "w", false, "re-parse whenever the input file changes")

	_ = viper.BindPFlag("tgm.format", tgmCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("tgm.strict", tgmCmd.Flags().Lookup("strict"))

	return tgmCmd
}

func tgmRun(cmd *cobra.Command, params *TgmParams) error {
	if err := validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid %s: %q", verrs[0].Field(), verrs[0].Value())
		}
		return err
	}

	exist, err := pkg.CheckFileExist(params.Input)
	if err != nil {
		return fmt.Errorf("check file exist error: %w", err)
	}
	if !exist {
		return fmt.Errorf("input file not exist: %s", params.Input)
	}
	if !pkg.HasTGMExt(params.Input) {
		logger.Warn().Str("input", params.Input).Msg("input does not have a .tgm extension")
	}

	render := func() error {
		return renderFile(cmd.OutOrStdout(), params)
	}
	if params.Watch {
		return watchFile(cmd.Context(), params.Input, render)
	}
	return render()
}

func renderFile(stdout io.Writer, params *TgmParams) error {
	model, err := tgm.ParseFile(params.Input, tgm.Options{
		Tokenizer: parse.Options{
			CommentPrefixes: params.Comment,
			Strict:          params.Strict,
		},
		Logger: &logger,
	})
	if err != nil {
		return err
	}
	logger.Info().
		Str("input", params.Input).
		Int("nodes", model.NumNodes()).
		Msg("tgm parsed")

	if params.Output == "" {
		return writeModel(stdout, model, params.Format, params.Find)
	}

	f, err := os.Create(params.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeModel(f, model, params.Format, params.Find); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
