package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/dispatcher"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/fetch"
	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/roadmap"
)

func newRoadmapCommand(opts *rootOptions) *cobra.Command {
	var lectureID string
	cmd := &cobra.Command{
		Use:   "roadmap <file.pdf|url>",
		Short: "Build the roadmap for one document and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			gateway, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}

			source := args[0]
			var data []byte
			if strings.Contains(source, "://") {
				data, err = fetch.New(cfg.Fetch.Timeout, cfg.Fetch.AWSRegion, logger).Fetch(cmd.Context(), source)
			} else {
				data, err = os.ReadFile(source)
			}
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			rm, err := roadmap.NewBuilder(gateway, nil, logger).Build(cmd.Context(), data)
			if err != nil {
				return err
			}
			return printJSON(cmd, dispatcher.Result{
				LectureID: dispatcher.StringID(lectureID),
				FileURL:   source,
				Roadmap:   rm,
			})
		},
	}
	cmd.Flags().StringVar(&lectureID, "lecture-id", "local", "Lecture id to put in the result")
	return cmd
}

func newFilesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List files uploaded to the LLM provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			gateway, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}
			files, err := gateway.ListFiles(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, files)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
