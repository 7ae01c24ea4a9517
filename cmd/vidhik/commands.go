package main

import (
	"strings"

	"github.com/spf13/cobra"

	"vidhik/internal/prompts"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Summarize a document and flag its risks",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var askCmd = &cobra.Command{
	Use:   "ask [file] [question...]",
	Short: "Ask a question about a document",
	Long:  `Asks a single question about a document. With --with-analysis the document is analyzed first and the answer builds on that summary.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

var compareCmd = &cobra.Command{
	Use:   "compare [original] [revised]",
	Short: "Compare two versions of a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show features and frequently asked questions",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

// withAnalysis is a flag for the ask command.
var withAnalysis bool

func init() {
	askCmd.Flags().BoolVar(&withAnalysis, "with-analysis", false, "Analyze the document before answering")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(infoCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	ctrl, err := newController(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	chat, err := ctrl.SelectDocument(ctx, doc)
	if err != nil {
		return err
	}
	chat, err = ctrl.RequestAnalysis(ctx, chat.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), chat.Analysis)
	}
	printAnalysis(cmd.OutOrStdout(), doc.Name, chat.Analysis)
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0])
	if err != nil {
		return err
	}
	question := strings.Join(args[1:], " ")

	ctrl, err := newController(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	chat, err := ctrl.SelectDocument(ctx, doc)
	if err != nil {
		return err
	}
	if withAnalysis {
		if chat, err = ctrl.RequestAnalysis(ctx, chat.ID); err != nil {
			return err
		}
	}
	chat, err = ctrl.AskQuestion(ctx, chat.ID, question)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), chat)
	}
	if withAnalysis {
		printAnalysis(cmd.OutOrStdout(), doc.Name, chat.Analysis)
	}
	printMessages(cmd.OutOrStdout(), chat.Messages)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	docA, err := openDocument(args[0])
	if err != nil {
		return err
	}
	docB, err := openDocument(args[1])
	if err != nil {
		return err
	}
	ctrl, err := newController(cmd)
	if err != nil {
		return err
	}

	session, err := ctrl.Compare(commandContext(cmd), docA, docB)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), session.Comparison)
	}
	printComparison(cmd.OutOrStdout(), docA.Name, docB.Name, session.Comparison)
	return nil
}

func runInfo(cmd *cobra.Command, _ []string) error {
	info, err := prompts.LoadInfo()
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), info)
	}
	printInfo(cmd.OutOrStdout(), info)
	return nil
}
