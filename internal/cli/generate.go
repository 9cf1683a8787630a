package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/emitter"
	"github.com/mark3labs/swagger2ts/internal/logging"
	"github.com/mark3labs/swagger2ts/internal/render"
	genspec "github.com/mark3labs/swagger2ts/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input               string
	Out                 string
	ConfigPath          string
	SkipBodyOfGet       bool
	TemplateRoot        string
	Templates           map[string]string
	TagMap              map[string]string
	ResponseInterceptor string
	IncludeTags         []string
	ExcludeTags         []string
	Methods             []string
	PathPatterns        []string
	Headers             map[string]string
	SaveSpec            string
	Validate            bool
	DryRun              bool
	Verbose             bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{SkipBodyOfGet: true}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript from a Swagger/OpenAPI document",
		Long: "Generate a TypeScript module with request functions, type declarations and " +
			"tag-grouped classes. Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2ts generate --input swagger.json --out src/api.ts
  swagger2ts generate --input https://petstore.swagger.io/v2/swagger.json --tag-map pet=PetApi
  swagger2ts --config swagger2ts.yaml generate --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("out", "", "Output file; prints to stdout when omitted")
	flags.Bool("skip-body-of-get", true, "Drop body parameters of GET operations")
	flags.String("template-root", "", "Directory holding <kind>.tmpl template overrides")
	flags.StringToString("template", nil, "Template override per kind (kind=path)")
	flags.StringToString("tag-map", nil, "Class name per tag (tag=ClassName)")
	flags.String("response-interceptor", "", "Response schema rewrite (identity|envelope)")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("methods", nil, "Only include these HTTP methods")
	flags.StringSlice("path-patterns", nil, "Only include paths matching one of these regular expressions")
	flags.StringToString("header", nil, "Extra HTTP header for remote input (name=value)")
	flags.String("save-spec", "", "Also save the fetched document to this path")
	flags.Bool("validate", false, "Validate the document before generating")
	flags.Bool("dry-run", false, "Generate without writing --out")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"input":                &cfg.Input,
		"out":                  &cfg.Out,
		"template-root":        &cfg.TemplateRoot,
		"response-interceptor": &cfg.ResponseInterceptor,
		"save-spec":            &cfg.SaveSpec,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	slices := map[string]*[]string{
		"include-tags":  &cfg.IncludeTags,
		"exclude-tags":  &cfg.ExcludeTags,
		"methods":       &cfg.Methods,
		"path-patterns": &cfg.PathPatterns,
	}
	for name, dst := range slices {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	maps := map[string]*map[string]string{
		"template": &cfg.Templates,
		"tag-map":  &cfg.TagMap,
		"header":   &cfg.Headers,
	}
	for name, dst := range maps {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringToString(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	bools := map[string]*bool{
		"skip-body-of-get": &cfg.SkipBodyOfGet,
		"validate":         &cfg.Validate,
		"dry-run":          &cfg.DryRun,
		"verbose":          &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.TemplateRoot = strings.TrimSpace(c.TemplateRoot)
	c.ResponseInterceptor = strings.ToLower(strings.TrimSpace(c.ResponseInterceptor))
	c.SaveSpec = strings.TrimSpace(c.SaveSpec)
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
	c.Methods = sanitizeTags(c.Methods)
	c.PathPatterns = sanitizeTags(c.PathPatterns)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	for kind := range c.Templates {
		if !render.Kind(kind).Valid() {
			return newUsageError(fmt.Sprintf("generate: unknown template kind %q (allowed: %s)", kind, kindList()))
		}
	}

	for _, m := range c.Methods {
		if _, ok := genspec.ParseMethod(m); !ok {
			return newUsageError(fmt.Sprintf("generate: unsupported method %q (allowed: get, post, put, patch, delete)", m))
		}
	}

	if _, err := config.InterceptorByName(c.ResponseInterceptor); err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

// options converts the command configuration into generator options.
func (c *GenerateConfig) options(logger logging.Logger) (config.Options, error) {
	interceptor, err := config.InterceptorByName(c.ResponseInterceptor)
	if err != nil {
		return config.Options{}, err
	}
	opts := config.Options{
		ResponseInterceptor: interceptor,
		SkipBodyOfGet:       config.Bool(c.SkipBodyOfGet),
		TemplateRoot:        c.TemplateRoot,
		Out:                 c.Out,
		Logger:              logger,
		IncludeTags:         c.IncludeTags,
		ExcludeTags:         c.ExcludeTags,
		PathPatterns:        c.PathPatterns,
		DryRun:              c.DryRun,
	}
	if len(c.TagMap) > 0 {
		opts.TagMapper = config.StaticTagMapper(c.TagMap)
	}
	if len(c.Templates) > 0 {
		opts.Templates = make(map[render.Kind]string, len(c.Templates))
		for k, v := range c.Templates {
			opts.Templates[render.Kind(k)] = v
		}
	}
	for _, m := range c.Methods {
		method, _ := genspec.ParseMethod(m)
		opts.Methods = append(opts.Methods, method)
	}
	return opts, nil
}

func (c *GenerateConfig) loadOptions() []genspec.Option {
	return []genspec.Option{genspec.WithHeaders(c.Headers), genspec.WithValidation(c.Validate)}
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := logging.NewText(os.Stderr, cfg.Verbose)

	// 1) Load the document (file or http/https URL)
	src, err := genspec.Load(ctx, cfg.Input, cfg.loadOptions()...)
	if err != nil {
		return specError(err)
	}
	logger.Debug("loaded document", "location", src.Location, "version", src.Version)

	if cfg.SaveSpec != "" {
		if err := src.Save(cfg.SaveSpec); err != nil {
			return wrapOutputError(err, cfg.SaveSpec)
		}
	}

	// 2) Generate
	opts, err := cfg.options(logger)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	res, err := emitter.Emit(ctx, src.Doc, opts)
	if err != nil {
		if errors.Is(err, config.ErrConfig) {
			return newUsageError(fmt.Sprintf("generate: %v", err))
		}
		if res != nil {
			return wrapOutputError(err, absPath(cfg.Out))
		}
		return err
	}

	// 3) Report
	switch {
	case cfg.Out == "":
		fmt.Fprint(os.Stdout, res.Text)
	case cfg.DryRun:
		printPlan(absPath(cfg.Out), res)
	default:
		logger.Info("wrote output", "path", res.Written)
	}
	return nil
}

// specError maps structured spec errors into friendly messages.
func specError(err error) error {
	var se *genspec.SpecError
	if !errors.As(err, &se) {
		return err
	}
	msg := fmt.Sprintf("spec: %s", se.Message)
	if se.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
	}
	if se.JSONPointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
	}
	return newUsageError(msg)
}

func printPlan(out string, res *emitter.Result) {
	fmt.Fprintf(os.Stdout, "Planned write to %s (%d bytes):\n", out, len(res.Text))
	fmt.Fprintf(os.Stdout, "- %d functions\n- %d classes\n- %d interfaces\n", res.Functions, res.Classes, res.Interfaces)
}

func wrapOutputError(err error, out string) error {
	// Common file system failures get a hint.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "not a directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out.", out, msg))
	}
	return err
}

func absPath(p string) string {
	if ap, err := filepath.Abs(p); err == nil {
		return ap
	}
	return p
}

func kindList() string {
	names := make([]string, 0, len(render.Kinds))
	for _, k := range render.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	// Sorted so the first reported error does not depend on map order.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := applyConfigField(cfg, key, raw[key]); err != nil {
			if errors.Is(err, ErrUsage) {
				return err
			}
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}
	return nil
}

func applyConfigField(cfg *GenerateConfig, key string, value any) error {
	var err error
	switch normalizeKey(key) {
	case "input":
		cfg.Input, err = valueAsString(value)
	case "out":
		cfg.Out, err = valueAsString(value)
	case "skipbodyofget":
		cfg.SkipBodyOfGet, err = valueAsBool(value)
	case "templateroot":
		cfg.TemplateRoot, err = valueAsString(value)
	case "templates":
		cfg.Templates, err = valueAsStringMap(value)
	case "tagmap":
		cfg.TagMap, err = valueAsStringMap(value)
	case "responseinterceptor":
		cfg.ResponseInterceptor, err = valueAsString(value)
	case "includetags":
		cfg.IncludeTags, err = valueAsStringSlice(value)
	case "excludetags":
		cfg.ExcludeTags, err = valueAsStringSlice(value)
	case "methods":
		cfg.Methods, err = valueAsStringSlice(value)
	case "pathpatterns":
		cfg.PathPatterns, err = valueAsStringSlice(value)
	case "headers":
		cfg.Headers, err = valueAsStringMap(value)
	case "savespec":
		cfg.SaveSpec, err = valueAsString(value)
	case "validate":
		cfg.Validate, err = valueAsBool(value)
	case "dryrun":
		cfg.DryRun, err = valueAsBool(value)
	case "verbose":
		cfg.Verbose, err = valueAsBool(value)
	default:
		return newUsageError(fmt.Sprintf("config file: unknown field %q", key))
	}
	return err
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsStringMap(v any) (map[string]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[strings.TrimSpace(k)] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
