package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	"prtgaudit/lib/configutil"
	"prtgaudit/lib/report"
	"prtgaudit/lib/restyutil"
	"prtgaudit/lib/telemetry"
	"prtgaudit/services/useraudit"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Config struct {
	Server      string `json:"server"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Output      string `json:"output"`
	InsecureTls bool   `json:"insecure_tls"`
}

var scrapeFlags struct {
	server      string
	username    string
	password    string
	output      string
	insecureTls bool
	noPrompt    bool
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeFlags.server, "server", "", "URL of the first PRTG server (prompted for when empty)")
	f.StringVar(&scrapeFlags.username, "username", "", "account to authenticate as")
	f.StringVar(&scrapeFlags.password, "password", "", "account password (prompted for when empty)")
	f.StringVar(&scrapeFlags.output, "output", "", "path of the xlsx report (appended to if it exists)")
	f.BoolVar(&scrapeFlags.insecureTls, "insecure-tls", false, "skip TLS certificate verification (self-signed servers)")
	f.BoolVar(&scrapeFlags.noPrompt, "no-prompt", false, "disable the add-another-server loop")
	rootCmd.AddCommand(scrapeCmd)
}

const defaultOutput = "prtg_users.xlsx"

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}

	if scrapeFlags.server != "" {
		cfg.Server = scrapeFlags.server
	}
	if scrapeFlags.username != "" {
		cfg.Username = scrapeFlags.username
	}
	if scrapeFlags.password != "" {
		cfg.Password = scrapeFlags.password
	}
	if scrapeFlags.output != "" {
		cfg.Output = scrapeFlags.output
	}
	if scrapeFlags.insecureTls {
		cfg.InsecureTls = true
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	return cfg
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--server <url>] [--output <path/to/report.xlsx>]",
	Short: "Scrapes user accounts from one or more PRTG servers and writes the report.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		stdin := bufio.NewReader(os.Stdin)
		interactive := &useraudit.PromptSource{In: stdin, Out: os.Stdout}

		var first useraudit.CredentialSource
		if cfg.Server == "" {
			first = interactive
		} else {
			if cfg.Password == "" {
				fmt.Print("Password: ")
				pw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					fatal("failed to read password", err)
				}
				cfg.Password = string(pw)
			}
			first = &useraudit.StaticSource{Creds: []useraudit.Credential{{
				ServerUrl: cfg.Server,
				Username:  cfg.Username,
				Password:  cfg.Password,
			}}}
		}

		var more useraudit.CredentialSource
		if !scrapeFlags.noPrompt {
			more = &useraudit.PromptSource{In: stdin, Out: os.Stdout, Gate: true}
		}

		var debugOutput restyutil.InstrumentOutput
		if verbose {
			debugOutput = restyutil.NewFilesystemOutput(".dev/resty/prtg-audit")
		}

		wb, err := report.Open(cfg.Output)
		if err != nil {
			fatal("failed to open report", err)
		}
		defer wb.Close()

		telemetry.InstrumentPerfStats(cmd.Context())

		agg := &useraudit.Aggregator{
			Processor: useraudit.Processor{
				InsecureTls: cfg.InsecureTls,
				DebugOutput: debugOutput,
			},
			First: first,
			More:  more,
		}

		t1 := time.Now()
		summary, runErr := agg.Run(cmd.Context(), wb)
		// save whatever was already validated even when the run itself
		// aborted partway through
		if summary.Succeeded > 0 {
			if err := wb.Save(); err != nil {
				fatal("failed to save report", err)
			}
			slog.Info("report written", "path", cfg.Output)
		}
		if runErr != nil {
			fatal("run aborted", runErr)
		}
		t2 := time.Now()
		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())

		summary.Render(os.Stdout)
	},
}
