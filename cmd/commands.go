// cmd/commands.go
package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/dtmfdecoder/internal/command"
	"github.com/ColonelBlimp/dtmfdecoder/internal/config"
	"github.com/ColonelBlimp/dtmfdecoder/internal/dtmf"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Execute commands entered on the keypad",
	Long: `Listens on the configured capture device and treats key sequences framed
as <prefix><code><suffix> (by default *code#) as command codes. Built-in
codes: 1234 prints a greeting, 1111 fetches a random programming joke.`,
	RunE: runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	dispatcher, err := command.NewDispatcher(command.Config{
		Prefix: rune(settings.CommandPrefix[0]),
		Suffix: rune(settings.CommandSuffix[0]),
	})
	if err != nil {
		return err
	}
	_ = dispatcher.Register("1234", command.Hello)
	_ = dispatcher.Register("1111", command.Joke)

	fmt.Println("DTMF COMMAND DECODER")
	fmt.Printf("Enter a code as %s<code>%s. Registered codes: %v\n\n",
		settings.CommandPrefix, settings.CommandSuffix, dispatcher.Codes())

	return runSession(cmd.Context(), settings, func(event dtmf.KeyEvent) {
		if event.Type != dtmf.KeyPressed {
			return
		}

		result := dispatcher.Key(event.Symbol)
		if result == nil {
			fmt.Printf("\rCOMMAND ~ %s", dispatcher.Pending())
			return
		}

		fmt.Printf("\rExecuting command: %s\n", result.Code)
		if result.Err != nil {
			log.Error("command failed", "code", result.Code, "err", result.Err)
			return
		}
		fmt.Println(result.Output)
	})
}
