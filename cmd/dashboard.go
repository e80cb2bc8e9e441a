package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/testgen/internal/dashboard"
	"github.com/ziadkadry99/testgen/internal/server"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve a local dashboard with statistics and recent test cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")
		allowAll, _ := cmd.Flags().GetBool("allow-all-origins")
		interval, _ := cmd.Flags().GetDuration("refresh")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		srv := server.New(server.Config{Port: port, AllowAll: allowAll}, a.logger)
		dash := dashboard.New(a.client, dashboard.Options{
			Title:    a.cfg.App.Name,
			Logger:   a.logger,
			Interval: interval,
			AllowAll: allowAll,
		})
		dash.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down dashboard...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "%s dashboard %s\n", a.cfg.App.Name, srv.URL())
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", a.client.Endpoints().Host())
		a.printSession()
		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

		if open {
			if err := server.OpenBrowser(srv.URL()); err != nil {
				a.logger.Warn("dashboard", "could not open browser", map[string]interface{}{"error": err.Error()})
			}
		}
		return srv.Start()
	},
}

func init() {
	dashboardCmd.Flags().Int("port", 8090, "port to listen on")
	dashboardCmd.Flags().Bool("open", false, "open the dashboard in a browser")
	dashboardCmd.Flags().Bool("allow-all-origins", false, "allow cross-origin requests from anywhere")
	dashboardCmd.Flags().Duration("refresh", 30*time.Second, "how often live clients receive statistics")
	rootCmd.AddCommand(dashboardCmd)
}
