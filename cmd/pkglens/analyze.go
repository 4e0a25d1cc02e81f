package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pkglens/internal/analyze"
	"pkglens/internal/config"
	"pkglens/internal/diag"
	pkgerrors "pkglens/internal/errors"
	"pkglens/internal/loader"
	"pkglens/internal/model"
	"pkglens/internal/output"
	"pkglens/internal/snapshot"
)

var (
	analyzeParsedFlag string
	analyzeGitLogFlag string
	analyzeRootFlag   string
	analyzeOutputFlag string
	analyzeSaveFlag   bool
)

// analysisEnvelope is the full document written to stdout: the analysis
// result plus every recoverable condition encountered along the way.
type analysisEnvelope struct {
	Result      *model.AnalysisResult `json:"result"`
	Diagnostics []diag.Diagnostic     `json:"diagnostics,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a package's structure",
	Long: `Analyze runs the full pipeline over a front-end parser dump: resolves the
public API surface from the entry aggregator module, classifies every file
into a reachability tier, fingerprints the most-imported exports, and
derives coupling rules from static imports and optional git history.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeParsedFlag, "parsed", "", "Path to the parsed-file JSON dump (required)")
	analyzeCmd.Flags().StringVar(&analyzeGitLogFlag, "git-log", "", "Path to raw commit-history text (optional)")
	analyzeCmd.Flags().StringVar(&analyzeRootFlag, "root", ".", "Package root directory")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFlag, "output", "o", "json", "Output format: json or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeSaveFlag, "save", false, "Store the result as a snapshot")
	_ = analyzeCmd.MarkFlagRequired("parsed")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(analyzeRootFlag)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	dump, err := loader.LoadParsedDump(analyzeParsedFlag)
	if err != nil {
		return err
	}
	decl, err := loader.LoadDeclaration(analyzeRootFlag)
	if err != nil {
		if pkgerrors.IsFatal(err) {
			return err
		}
		logger.Warn("Ignoring package declaration", map[string]interface{}{
			"error": err.Error(),
		})
		decl = nil
	}
	loader.ApplyDeclaration(dump, decl)

	commitLog, err := loader.LoadCommitLog(analyzeGitLogFlag)
	if err != nil {
		return err
	}

	runner := &analyze.Runner{Root: analyzeRootFlag, Config: cfg, Logger: logger}
	result, diags := runner.Run(cmd.Context(), dump, commitLog)

	if analyzeSaveFlag {
		store, err := snapshot.Open(analyzeRootFlag, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(result)
		if err != nil {
			return err
		}
		logger.Info("Snapshot saved", map[string]interface{}{"id": id})
	}

	return writeEnvelope(analysisEnvelope{Result: result, Diagnostics: diags}, analyzeOutputFlag)
}

func writeEnvelope(env analysisEnvelope, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json":
		data, err := output.DeterministicEncodeIndented(env, "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Println(string(data))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
