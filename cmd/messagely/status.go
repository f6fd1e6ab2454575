// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/messagely/internal/config"
)

// probeTimeout bounds each health probe request.
const probeTimeout = 2 * time.Second

// probes lists the health endpoints in display order.
var probes = []string{"liveness", "readiness"}

// ProbeStatus holds the result of one health probe.
type ProbeStatus struct {
	Probe      string `json:"probe"`
	Healthy    bool   `json:"healthy"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Error      string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	client     *http.Client
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return newStatusCmd(&statusConfig{})
}

func newStatusCmd(cfg *statusConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running Messagely server",
		Long: `Query the liveness and readiness probes of a running server and report
its health. The probes are served on the metrics address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address of the server")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	loaded, err := (&config.Loader{
		Path:  configFile,
		Flags: cmd.Flags(),
		Check: func(c *config.Config) error {
			if c.Metrics.Addr == "" {
				return oops.Code("STATUS_NO_METRICS_ADDR").Errorf("metrics server is disabled; set --metrics-addr")
			}
			return nil
		},
	}).Load()
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}

	statuses := make(map[string]ProbeStatus, len(probes))
	for _, probe := range probes {
		statuses[probe] = queryProbe(cmd.Context(), client, loaded.Metrics.Addr, probe)
	}

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(statuses)
		if err != nil {
			return err
		}
	} else {
		output = formatStatusTable(statuses)
	}

	cmd.Println(output)
	return nil
}

// queryProbe requests /healthz/<probe> on addr.
func queryProbe(ctx context.Context, client *http.Client, addr, probe string) ProbeStatus {
	status := ProbeStatus{Probe: probe}

	url := "http://" + addr + "/healthz/" + probe
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status.Error = fmt.Sprintf("invalid address: %v", err)
		return status
	}

	resp, err := client.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	status.HTTPStatus = resp.StatusCode
	status.Healthy = resp.StatusCode == http.StatusOK
	status.Detail = strings.TrimSpace(string(body))
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(statuses map[string]ProbeStatus) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tHTTP\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t------")

	for _, probe := range probes {
		status := statuses[probe]
		switch {
		case status.Error != "":
			_, _ = fmt.Fprintf(w, "%s\tunreachable\t-\t%s\n", probe, status.Error)
		case status.Healthy:
			_, _ = fmt.Fprintf(w, "%s\thealthy\t%d\t%s\n", probe, status.HTTPStatus, status.Detail)
		default:
			_, _ = fmt.Fprintf(w, "%s\tunhealthy\t%d\t%s\n", probe, status.HTTPStatus, status.Detail)
		}
	}

	_ = w.Flush()
	return b.String()
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(statuses map[string]ProbeStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
	}
	return string(data), nil
}
