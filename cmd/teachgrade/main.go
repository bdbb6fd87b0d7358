// teachgrade processes recorded teaching sessions: it extracts speech and
// delivery metrics from a recording, scores the session against a
// role-specific rubric and cuts evidence clips for the issues cited.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teachgrade/pipeline/clients"
	cfg "github.com/teachgrade/pipeline/config"
	"github.com/teachgrade/pipeline/evidence"
	"github.com/teachgrade/pipeline/media"
	"github.com/teachgrade/pipeline/orchestrator"
	"github.com/teachgrade/pipeline/rubric"
	"github.com/teachgrade/pipeline/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teachgrade",
		Short:         "Score recorded teaching sessions with evidence clips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCreateCmd(),
		newAttachVideoCmd(),
		newExtractAudioCmd(),
		newTranscribeCmd(),
		newBodyMetricsCmd(),
		newScoreCmd(),
		newReportCmd(),
	)
	return root
}

func setup() (*orchestrator.Pipeline, error) {
	conf, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		log.SetLevel(lvl)
	}

	store, err := session.NewFileStore(conf.Paths.Sessions)
	if err != nil {
		return nil, err
	}

	h := clients.NewHTTP(conf.HTTPTimeout())
	transcoder := media.NewTranscoder(conf.Media.FFmpeg, log)
	reasoner := clients.NewReasoningClient(h,
		conf.Services.Reasoning.URL, conf.Services.Reasoning.APIKey, conf.Services.Reasoning.Model)

	return orchestrator.New(conf, orchestrator.Deps{
		Store: store,
		Transcriber: clients.NewTranscriptionClient(h,
			conf.Services.Transcription.URL, conf.Services.Transcription.APIKey, conf.Services.Transcription.Model),
		Reasoner: reasoner,
		Speech: clients.NewTTSClient(h,
			conf.Services.TTS.URL, conf.Services.TTS.APIKey, conf.Services.TTS.Model),
		Rubrics: rubric.NewProvider(conf.Paths.Rubrics, reasoner, log),
		Audio:   transcoder,
		Clips:   evidence.NewExtractor(transcoder, conf.Paths.Evidence, log),
		Log:     log,
	}), nil
}

func newCreateCmd() *cobra.Command {
	var mentor, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			s, err := p.Create(cmd.Context(), mentor, role)
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"sessionId": s.ID})
		},
	}
	cmd.Flags().StringVar(&mentor, "mentor", "", "mentor name")
	cmd.Flags().StringVar(&role, "role", "teacher", "teaching role")
	return cmd
}

func newAttachVideoCmd() *cobra.Command {
	var id, video string
	cmd := &cobra.Command{
		Use:   "attach-video",
		Short: "Attach the recording to a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			s, err := p.AttachVideo(cmd.Context(), id, video)
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"sessionId": s.ID, "videoPath": s.VideoPath})
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	cmd.Flags().StringVar(&video, "video", "", "path to the recording")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("video")
	return cmd
}

func newExtractAudioCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "extract-audio",
		Short: "Extract the audio track from the recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			s, err := p.ExtractAudio(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"sessionId": s.ID, "audioPath": s.AudioPath})
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newTranscribeCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe the audio and derive speech metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			s, err := p.GenerateTranscript(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"sessionId":    s.ID,
				"transcript":   s.Transcript,
				"audioMetrics": s.Metrics,
				"pauses":       s.Pauses,
			})
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newBodyMetricsCmd() *cobra.Command {
	var id, metricsJSON string
	cmd := &cobra.Command{
		Use:   "body-metrics",
		Short: "Store externally computed body-language metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var metrics map[string]float64
			if err := json.Unmarshal([]byte(metricsJSON), &metrics); err != nil {
				return fmt.Errorf("--metrics must be a JSON object of numbers: %w", err)
			}
			p, err := setup()
			if err != nil {
				return err
			}
			s, err := p.SaveBodyMetrics(cmd.Context(), id, metrics)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"sessionId": s.ID, "bodyLanguageMetrics": s.BodyMetrics})
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	cmd.Flags().StringVar(&metricsJSON, "metrics", "{}", `metrics as JSON, e.g. '{"posture": 7, "eyeContact": 5}'`)
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newScoreCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score the session and extract evidence clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			report, err := p.Score(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newReportCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the full assembled session report",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup()
			if err != nil {
				return err
			}
			r, err := p.Report(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(r)
		},
	}
	cmd.Flags().StringVar(&id, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
