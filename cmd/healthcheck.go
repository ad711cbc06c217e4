package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-session/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
	healthcheckRepair  bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the session store for inconsistencies",
	Long: `Check the health of the session store by verifying:
  • Storage configuration and location
  • Storage backend access
  • Session index and message logs
  • Current session pointer

With --repair, problems found are fixed: duplicate and excess sessions are
dropped, corrupt logs are reset, oversized logs are trimmed, orphaned logs
are removed and the current session pointer is rewritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Chat Session Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, paths, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Backend: %s\n", cfg.Storage.Backend)
			fmt.Fprintf(out, "   Prefix: %s\n", cfg.ResolvePrefix())
			fmt.Fprintf(out, "   Limits: %d sessions, %d messages\n", cfg.Limits.MaxSessions, cfg.Limits.MaxMessages)
		}
		fmt.Fprintln(out)

		// Step 2: Storage location
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking storage location..."))
		if paths.Exists(cfg.Storage.Backend) {
			fmt.Fprintln(out, successStyle.Render("✅ Storage found"))
		} else if cfg.Storage.Backend == internal.BackendMemory {
			fmt.Fprintln(out, warningStyle.Render("⚠️  In-memory storage does not persist between runs"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage not found, it will be created"))
		}
		if healthcheckDetails && cfg.Storage.Backend != internal.BackendMemory {
			fmt.Fprintf(out, "   Path: %s\n", paths.PathFor(cfg.Storage.Backend))
		}
		fmt.Fprintln(out)

		// Step 3: Backend access
		fmt.Fprintln(out, infoStyle.Render("Step 3: Testing storage backend access..."))
		s, err := openStore(false)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to initialize storage backend"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Error details:")
			fmt.Fprintln(out, err)
			return err
		}
		defer s.Close()
		fmt.Fprintln(out, successStyle.Render("✅ Storage backend initialized"))
		fmt.Fprintln(out)

		// Step 4: Integrity
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking stored sessions..."))
		report, err := s.store.Check()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read sessions:"), err)
			return err
		}
		displayReport(out, report)
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)

		if report.Healthy() {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d", report.Sessions)))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Messages: %d", report.Messages)))
			return nil
		}

		if !healthcheckRepair {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintln(out, "   Run 'chat-session healthcheck --repair' to fix the problems above")
			return fmt.Errorf("health check failed: store is inconsistent")
		}

		if _, err := s.store.Repair(); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Repair failed:"), err)
			return err
		}
		after, err := s.store.Check()
		if err != nil {
			return err
		}
		if !after.Healthy() {
			fmt.Fprintln(out, errorStyle.Render("❌ Problems remain after repair"))
			displayReport(out, after)
			return fmt.Errorf("health check failed: repair incomplete")
		}
		fmt.Fprintln(out, successStyle.Render("✅ Store repaired"))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d", after.Sessions)))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Messages: %d", after.Messages)))
		return nil
	},
}

func displayReport(out io.Writer, report *internal.Report) {
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s) with %d message(s)", report.Sessions, report.Messages)))

	problem := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %s: %d", label, len(items))))
		if healthcheckDetails {
			for i, item := range items {
				if i == 5 {
					fmt.Fprintf(out, "   ... and %d more\n", len(items)-5)
					break
				}
				if item == "" {
					item = "(empty id)"
				}
				fmt.Fprintf(out, "   [%d] %s\n", i+1, item)
			}
		}
	}

	problem("Duplicate sessions", report.Duplicates)
	problem("Corrupt values", report.Corrupt)
	problem("Oversized message logs", report.Oversized)
	problem("Orphaned message logs", report.Orphans)

	if report.Overflow > 0 {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Sessions over the limit: %d", report.Overflow)))
	}
	if report.StalePointer != "" {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Current session pointer names a missing session: "+report.StalePointer))
	}
	if report.MissingPointer {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No current session pointer"))
	}
	if !report.OrphansChecked {
		fmt.Fprintln(out, infoStyle.Render("   Orphaned logs not checked: "+strings.ToLower(internal.ErrListingUnsupported.Error())))
	}
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().BoolVar(&healthcheckRepair, "repair", false, "Fix problems that are found")
}
