package cmd

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/doronpers/sonotheia-enhanced/configs"
	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
	"github.com/doronpers/sonotheia-enhanced/pkg/logging"
	"github.com/doronpers/sonotheia-enhanced/pkg/sensors"
)

var (
	analyzeSampleRate int
	analyzeFormat     string
	analyzeSensors    []string
	analyzeNormalize  bool
)

var titleCaser = cases.Title(language.English)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pcm-file>",
	Short: "Analyze a raw PCM clip with the detection sensors",
	Long: `Analyze reads a raw PCM file (no container, no codec), runs the
selected sensors over it, and reports one result per sensor.

Supported sample formats are f64le (little-endian float64) and s16le
(little-endian signed 16-bit). Use "-" to read from stdin.

Each sensor is scored independently; no combined verdict is produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeSampleRate, "sample-rate", "r", 0,
		"sample rate of the input in Hz (default from config, 16000)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "",
		"sample format: f64le or s16le (default from config, f64le)")
	analyzeCmd.Flags().StringSliceVarP(&analyzeSensors, "sensors", "s", nil,
		"sensors to run (default: all enabled in config)")
	analyzeCmd.Flags().BoolVar(&analyzeNormalize, "normalize", false,
		"peak-normalize the clip to [-1,1] before analysis")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(config.LogLevel)

	sampleRate := config.Audio.SampleRate
	if analyzeSampleRate != 0 {
		sampleRate = analyzeSampleRate
	}

	format := config.Audio.Format
	if analyzeFormat != "" {
		format = analyzeFormat
	}

	samples, err := readPCM(args[0], format)
	if err != nil {
		return err
	}
	if analyzeNormalize {
		samples = audio.Normalize(samples)
	}

	logger.Debug("clip loaded", logging.Fields{
		"path":        args[0],
		"format":      format,
		"sample_rate": sampleRate,
		"samples":     len(samples),
	})

	selected, err := buildSensors(config, logger)
	if err != nil {
		return err
	}

	results := make([]*sensors.Result, 0, len(selected))
	for _, sensor := range selected {
		results = append(results, sensor.Analyze(samples, sampleRate))
	}

	return renderResults(cmd.OutOrStdout(), results, viper.GetString("output_format"))
}

// readPCM loads raw PCM samples from a file or stdin
func readPCM(path, format string) ([]float64, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch format {
	case configs.FormatFloat64LE:
		return decodeFloat64LE(data)
	case configs.FormatInt16LE:
		return decodeInt16LE(data)
	default:
		return nil, fmt.Errorf("unsupported sample format: %s", format)
	}
}

func decodeFloat64LE(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("f64le input length %d is not a multiple of 8", len(data))
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		samples[i] = math.Float64frombits(bits)
	}
	return samples, nil
}

func decodeInt16LE(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("s16le input length %d is not a multiple of 2", len(data))
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(sample) / 32768.0
	}
	return samples, nil
}

// buildSensors creates the selected sensors with config thresholds applied
func buildSensors(config *configs.Config, logger logging.Logger) ([]sensors.Sensor, error) {
	registry := sensors.NewRegistry()

	sensorConfigs := map[string]configs.SensorConfig{
		sensors.SensorNameVacuum:       config.Sensors.Vacuum,
		sensors.SensorNamePhase:        config.Sensors.Phase,
		sensors.SensorNameArticulation: config.Sensors.Articulation,
	}

	names := analyzeSensors
	if len(names) == 0 {
		for _, name := range registry.List() {
			if sc, ok := sensorConfigs[name]; !ok || sc.Enabled {
				names = append(names, name)
			}
		}
	}

	selected := make([]sensors.Sensor, 0, len(names))
	for _, name := range names {
		opts := []sensors.Option{sensors.WithLogger(logger)}
		if sc, ok := sensorConfigs[name]; ok {
			opts = append(opts, sensors.WithThreshold(sc.Threshold))
		}

		sensor, err := registry.Create(name, opts...)
		if err != nil {
			return nil, err
		}
		selected = append(selected, sensor)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no sensors selected")
	}

	return selected, nil
}

// renderResults writes the per-sensor results in the requested format
func renderResults(w io.Writer, results []*sensors.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err

	case "table", "":
		for _, r := range results {
			fmt.Fprintf(w, "%-4s  %-22s  score=%.4f  threshold=%.2f\n",
				r.Status(), displayName(r.SensorName), r.Value, r.Threshold)
			if r.Reason != "" {
				fmt.Fprintf(w, "      reason: %s\n", r.Reason)
			}
			if r.Detail != "" {
				fmt.Fprintf(w, "      %s\n", r.Detail)
			}
		}
		return nil

	default:
		return fmt.Errorf("invalid output format: %s", format)
	}
}

// displayName renders "vacuum_sensor" as "Vacuum Sensor"
func displayName(sensorName string) string {
	return titleCaser.String(strings.ReplaceAll(sensorName, "_", " "))
}
