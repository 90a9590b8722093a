package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/askdb/internal/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question against the registered data sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		question := strings.Join(args, " ")
		answer, err := env.Agent.Run(cmd.Context(), question, nil)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		var history []agent.Message
		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprintln(out, "Ask a question, or press Ctrl-D to quit.")

		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}

			answer, err := env.Agent.Run(cmd.Context(), question, history)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, answer)

			history = append(history,
				agent.Message{Role: "user", Content: question},
				agent.Message{Role: "assistant", Content: answer},
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}
