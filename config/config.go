package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"rattlescan/version"
)

// Config carries every knob of a single inspection run.
type Config struct {
	FilePath            string            `json:"-"`
	Clean               bool              `json:"clean"`
	Wipe                bool              `json:"wipe"`
	Action              string            `json:"action"`
	Force               bool              `json:"force"`
	HashAlgorithms      []string          `json:"hash_algorithms"`
	FuzzyHash           bool              `json:"fuzzy_hash"`
	FuzzyAlgorithms     []string          `json:"fuzzy_algorithms"`
	ScanSensitive       bool              `json:"scan_sensitive"`
	RedactSensitive     string            `json:"redact_sensitive"`
	SensitiveMaxPerType int               `json:"sensitive_max_matches_per_type"`
	SensitiveMaxTotal   int               `json:"sensitive_max_total_matches"`
	CustomPatterns      map[string]string `json:"custom_patterns"`
	EntropySampleBytes  int64             `json:"entropy_sample_bytes"`
	MetadataMaxBytes    int64             `json:"metadata_max_bytes"`
	WipePasses          int               `json:"wipe_passes"`
	MaxIOPerSecond      int               `json:"max_io_per_second"`
	CollectXattrs       bool              `json:"collect_xattrs"`
	XattrMaxValueSize   int               `json:"xattr_max_value_size"`
	CollectVolumeInfo   bool              `json:"collect_volume_info"`
	OutputFormat        string            `json:"output_format"`
	NoColor             bool              `json:"no_color"`
	LogLevel            string            `json:"log_level"`
	ConfigFile          string            `json:"config_file"`
}

// Actions the cleaning engine understands, in menu order.
var validActions = []string{"clean-copy", "clean-overwrite", "secure-wipe", "skip"}

// coreHashes is the fixed digest triple every run computes.
var coreHashes = []string{"md5", "sha1", "sha256"}

var extraHashes = map[string]bool{"blake3": true, "xxh64": true}

func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	clean := flag.Bool("clean", cfg.Clean, "Prompt for metadata cleaning after the scan.")
	wipe := flag.Bool("wipe", cfg.Wipe, "Prompt for secure wiping after the scan.")
	action := flag.String("action", "", "Run non-interactively: clean-copy, clean-overwrite, secure-wipe, or skip.")
	force := flag.Bool("force", cfg.Force, "Allow --action clean-overwrite or secure-wipe without a prompt.")
	hashes := flag.String("hashes", strings.Join(cfg.HashAlgorithms, ","), "Comma-separated digest algorithms. md5,sha1,sha256 always run; blake3 and xxh64 may be added.")
	fuzzyHash := flag.Bool("fuzzy-hash", cfg.FuzzyHash, "Compute fuzzy hashes (default algorithm: tlsh).")
	fuzzyAlgorithms := flag.String("fuzzy-algorithms", "", "Comma-separated fuzzy hash algorithms.")
	scanSensitive := flag.Bool("scan-sensitive", cfg.ScanSensitive, "Scan text-like content for sensitive data patterns.")
	redactSensitive := flag.String("redact-sensitive", cfg.RedactSensitive, "Redact sensitive matches: mask or hash (default: none).")
	sensitiveMaxPerType := flag.Int("sensitive-max-matches-per-type", cfg.SensitiveMaxPerType, "Maximum sensitive matches reported per type (0 means unlimited).")
	sensitiveMaxTotal := flag.Int("sensitive-max-total-matches", cfg.SensitiveMaxTotal, "Maximum total sensitive matches reported (0 means unlimited).")
	customPatterns := flag.String("custom-patterns", "", "Custom sensitive data patterns as a JSON object mapping names to regexes.")
	entropySampleBytes := flag.Int64("entropy-sample-bytes", cfg.EntropySampleBytes, "Bytes sampled from the head of the file for entropy analysis.")
	metadataMaxBytes := flag.Int64("metadata-max-bytes", cfg.MetadataMaxBytes, "Maximum bytes metadata parsers may read per file (0 means unlimited).")
	wipePasses := flag.Int("wipe-passes", cfg.WipePasses, "Overwrite passes for secure wipe.")
	maxIO := flag.Int("max-io-per-second", cfg.MaxIOPerSecond, "Maximum wipe write operations per second (0 means unthrottled).")
	collectXattrs := flag.Bool("collect-xattrs", cfg.CollectXattrs, "Collect extended attributes.")
	xattrMaxValueSize := flag.Int("xattr-max-value-size", cfg.XattrMaxValueSize, "Max bytes of xattr values to capture.")
	collectVolumeInfo := flag.Bool("collect-volume-info", cfg.CollectVolumeInfo, "Report host and volume context for the file.")
	format := flag.String("format", cfg.OutputFormat, "Output format: text or json.")
	noColor := flag.Bool("no-color", cfg.NoColor, "Disable ANSI styling in text output.")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error, fatal, or panic.")
	configFile := flag.String("config", "", "Path to JSON configuration file.")
	showVersion := flag.Bool("version", false, "Print version and exit.")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("rattlescan version %s\n", version.Version)
		os.Exit(0)
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "clean":
			cfg.Clean = *clean
		case "wipe":
			cfg.Wipe = *wipe
		case "action":
			cfg.Action = strings.ToLower(strings.TrimSpace(*action))
		case "force":
			cfg.Force = *force
		case "hashes":
			cfg.HashAlgorithms = parseCommaSeparated(*hashes)
		case "fuzzy-hash":
			cfg.FuzzyHash = *fuzzyHash
		case "fuzzy-algorithms":
			cfg.FuzzyAlgorithms = parseCommaSeparated(*fuzzyAlgorithms)
		case "scan-sensitive":
			cfg.ScanSensitive = *scanSensitive
		case "redact-sensitive":
			cfg.RedactSensitive = strings.ToLower(strings.TrimSpace(*redactSensitive))
		case "sensitive-max-matches-per-type":
			cfg.SensitiveMaxPerType = *sensitiveMaxPerType
		case "sensitive-max-total-matches":
			cfg.SensitiveMaxTotal = *sensitiveMaxTotal
		case "custom-patterns":
			cfg.CustomPatterns = parseCustomPatterns(*customPatterns)
		case "entropy-sample-bytes":
			cfg.EntropySampleBytes = *entropySampleBytes
		case "metadata-max-bytes":
			cfg.MetadataMaxBytes = *metadataMaxBytes
		case "wipe-passes":
			cfg.WipePasses = *wipePasses
		case "max-io-per-second":
			cfg.MaxIOPerSecond = *maxIO
		case "collect-xattrs":
			cfg.CollectXattrs = *collectXattrs
		case "xattr-max-value-size":
			cfg.XattrMaxValueSize = *xattrMaxValueSize
		case "collect-volume-info":
			cfg.CollectVolumeInfo = *collectVolumeInfo
		case "format":
			cfg.OutputFormat = strings.ToLower(strings.TrimSpace(*format))
		case "no-color":
			cfg.NoColor = *noColor
		case "log-level":
			cfg.LogLevel = strings.ToLower(strings.TrimSpace(*logLevel))
		}
	})

	if flag.NArg() < 1 {
		return nil, fmt.Errorf("no file path given")
	}
	cfg.FilePath = flag.Arg(0)

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		HashAlgorithms:      append([]string{}, coreHashes...),
		FuzzyAlgorithms:     []string{},
		CustomPatterns:      map[string]string{},
		SensitiveMaxPerType: 100,
		SensitiveMaxTotal:   1000,
		EntropySampleBytes:  1024 * 1024,
		MetadataMaxBytes:    1024 * 1024,
		WipePasses:          3,
		CollectXattrs:       true,
		XattrMaxValueSize:   1024,
		CollectVolumeInfo:   true,
		OutputFormat:        "text",
		LogLevel:            "info",
	}
}

// Normalize canonicalizes list and enum fields before validation.
func (cfg *Config) Normalize() {
	cfg.HashAlgorithms = normalizeAlgorithms(cfg.HashAlgorithms)
	cfg.FuzzyAlgorithms = normalizeAlgorithms(cfg.FuzzyAlgorithms)
	cfg.RedactSensitive = strings.ToLower(strings.TrimSpace(cfg.RedactSensitive))
	cfg.Action = strings.ToLower(strings.TrimSpace(cfg.Action))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))

	if cfg.RedactSensitive == "none" {
		cfg.RedactSensitive = ""
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// The core triple always runs, in fixed order, before any extras.
	extras := []string{}
	for _, algo := range cfg.HashAlgorithms {
		if extraHashes[algo] && !containsString(extras, algo) {
			extras = append(extras, algo)
		}
	}
	cfg.HashAlgorithms = append(append([]string{}, coreHashes...), extras...)

	if cfg.FuzzyHash && len(cfg.FuzzyAlgorithms) == 0 {
		cfg.FuzzyAlgorithms = []string{"tlsh"}
	}
	if len(cfg.FuzzyAlgorithms) > 0 {
		cfg.FuzzyHash = true
	}
}

// Validate checks every knob. The target path's existence is checked by
// the caller, which owns the exit-code contract.
func (cfg *Config) Validate() error {
	if cfg.FilePath == "" {
		return fmt.Errorf("no file path given")
	}
	if cfg.Action != "" && !containsString(validActions, cfg.Action) {
		return fmt.Errorf("invalid action: %s (valid: %s)", cfg.Action, strings.Join(validActions, ", "))
	}
	if (cfg.Action == "clean-overwrite" || cfg.Action == "secure-wipe") && !cfg.Force {
		return fmt.Errorf("--action %s is destructive and requires --force", cfg.Action)
	}
	if cfg.RedactSensitive != "" && cfg.RedactSensitive != "mask" && cfg.RedactSensitive != "hash" {
		return fmt.Errorf("invalid redact-sensitive value: %s", cfg.RedactSensitive)
	}
	if cfg.SensitiveMaxPerType < 0 {
		return fmt.Errorf("sensitive-max-matches-per-type must be zero or positive")
	}
	if cfg.SensitiveMaxTotal < 0 {
		return fmt.Errorf("sensitive-max-total-matches must be zero or positive")
	}
	if cfg.EntropySampleBytes <= 0 {
		return fmt.Errorf("entropy-sample-bytes must be positive")
	}
	if cfg.MetadataMaxBytes < 0 {
		return fmt.Errorf("metadata-max-bytes must be zero or positive")
	}
	if cfg.WipePasses <= 0 {
		return fmt.Errorf("wipe-passes must be positive")
	}
	if cfg.MaxIOPerSecond < 0 {
		return fmt.Errorf("max-io-per-second must be zero or positive")
	}
	if cfg.XattrMaxValueSize < 0 {
		return fmt.Errorf("xattr-max-value-size must be zero or positive")
	}
	if cfg.OutputFormat != "text" && cfg.OutputFormat != "json" {
		return fmt.Errorf("invalid output format: %s (text or json)", cfg.OutputFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	for _, algo := range cfg.HashAlgorithms {
		if !containsString(coreHashes, algo) && !extraHashes[algo] {
			return fmt.Errorf("unsupported hash algorithm: %s", algo)
		}
	}
	return nil
}

func displayHelp() {
	fmt.Println("rattlescan - Forensic file inspector")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rattlescan [options] <file_path>")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  rattlescan photo.jpg")
	fmt.Println("  rattlescan --clean document.pdf")
	fmt.Println("  rattlescan --action clean-copy photo.jpg")
	fmt.Println("  rattlescan --action secure-wipe --force secrets.txt")
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

func parseCommaSeparated(input string) []string {
	if input == "" {
		return []string{}
	}
	items := strings.Split(input, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

func parseCustomPatterns(input string) map[string]string {
	patterns := make(map[string]string)
	if input == "" {
		return patterns
	}
	if err := json.Unmarshal([]byte(input), &patterns); err != nil {
		fmt.Fprintf(os.Stderr, "invalid custom patterns: %v\n", err)
		return map[string]string{}
	}
	return patterns
}

func normalizeAlgorithms(items []string) []string {
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		normalized = append(normalized, item)
	}
	return normalized
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
