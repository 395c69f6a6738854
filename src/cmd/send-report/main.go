// Entrypoint with subprograms for delivering an already rendered report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/config"
	"funding-report/src/pkg/email"
	"funding-report/src/pkg/report"
	"funding-report/src/pkg/util"
)

/*
Mail the report HTML produced by the report command.

The provider comes from -provider or the email section of the config file.
Only that provider's credentials have to be present in the environment.
*/
func send(subprogram string, flags []string) {
	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	provider := subprogramCmd.String("provider", "", "Provider to use: ses, mailgun or sendgrid (default: email.provider)")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient addresses, comma separated")
	subject := subprogramCmd.String("subject", "", "Subject of an email (default: email.subject)")
	reportPath := subprogramCmd.String("report", "", "Path of the rendered report HTML")
	textPath := subprogramCmd.String("text", "", "Optional plain text body file")
	dryRun := subprogramCmd.Bool("dry-run", false, "Validate and log the message without sending it")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)
	email.InitializeConfig(config.Section[email.Config](config.Cfg.Email))
	report.InitializeConfig(config.Section[report.Config](config.Cfg.Report))

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFlag(reportPath, "report")
	util.EnsureFlags()

	chosenProvider := email.Cfg.Provider
	if *provider != "" {
		chosenProvider = email.Provider(*provider)
	}
	validateErr := chosenProvider.Validate()
	xerr.QuitIfError(validateErr, "Unable to pick email provider")

	if !*dryRun {
		config.CheckIfEnvVarsPresent(chosenProvider.RequiredEnvVars()...)
	}

	message := email.Message{
		From:    *senderAddress,
		To:      email.ParseRecipients(*recipientAddress),
		Subject: email.Cfg.Subject,
		Tag:     email.Cfg.Tag,
	}
	if *subject != "" {
		message.Subject = *subject
	}

	// read html file
	htmlFileContentBytes, err := os.ReadFile(*reportPath)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", *reportPath))
	message.HTML = string(htmlFileContentBytes)
	tl.Log(tl.Debug, palette.BlueDim, "Report HTML is %s bytes", len(htmlFileContentBytes))

	// read text file, or fall back to a one line summary
	if *textPath != "" {
		textFileContentBytes, err := os.ReadFile(*textPath)
		xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", *textPath))
		message.Text = string(textFileContentBytes)
	} else {
		message.Text = fmt.Sprintf("%s. Open the HTML version of this email to see the charts.", report.Cfg.Title)
	}

	sendEmails := !*dryRun
	_, e := email.SendMessage(context.Background(), chosenProvider, &sendEmails, message)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
}

func main() {
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run ./src/cmd/send-report send -sender a@b.c -recipient d@e.f -report ./auto_monthly_graph.html")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	switch subprogram {
	case "send":
		send(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
