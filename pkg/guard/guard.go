package guard

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"
)

// DefaultThreshold is the unsafe score boundary applied when the
// configuration leaves it unset.
const DefaultThreshold = 5

// Config controls detection behavior.
type Config struct {
	// Enabled toggles detection. A disabled guard returns a trivially safe
	// result for every input.
	Enabled bool `yaml:"enabled"`

	// Threshold is the unsafe score boundary: a score at or above it yields
	// an unsafe verdict. Default: 5.
	Threshold int `yaml:"threshold"`

	// Languages selects which pattern tables are scanned. Default:
	// ["en", "ko"].
	Languages []string `yaml:"languages"`

	// PackDir optionally points at a directory of YAML pattern packs merged
	// on top of the built-in tables.
	PackDir string `yaml:"pack_dir"`
}

// compiledPattern pairs a compiled expression with its source and category.
type compiledPattern struct {
	category Category
	source   string
	re       *regexp.Regexp
}

// Guard scores free-text input for injection-attack signatures.
type Guard struct {
	config Config
	logger *slog.Logger

	// mu protects patterns (pack reload) and the statistics counters.
	mu       sync.RWMutex
	patterns map[string][]compiledPattern

	validations  int
	detections   int
	bySeverity   map[Severity]int
	lastDetected time.Time
}

// New creates a guard from the built-in pattern tables plus any packs found
// in cfg.PackDir.
func New(cfg Config, logger *slog.Logger) (*Guard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en", "ko"}
	}

	g := &Guard{
		config:     cfg,
		logger:     logger.With("component", "guard"),
		bySeverity: make(map[Severity]int),
	}

	if err := g.reload(); err != nil {
		return nil, err
	}
	return g, nil
}

// reload recompiles the pattern tables from the built-ins plus pack files.
func (g *Guard) reload() error {
	tables := make(map[string][]compiledPattern)

	compile := func(lang string, cat Category, exprs []string) error {
		for _, expr := range exprs {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return fmt.Errorf("invalid pattern %q (%s/%s): %w", expr, lang, cat, err)
			}
			tables[lang] = append(tables[lang], compiledPattern{
				category: cat,
				source:   expr,
				re:       re,
			})
		}
		return nil
	}

	for lang, cats := range builtinPatterns {
		for cat, exprs := range cats {
			if err := compile(lang, cat, exprs); err != nil {
				return err
			}
		}
	}

	if g.config.PackDir != "" {
		packs, err := loadPacks(g.config.PackDir)
		if err != nil {
			return err
		}
		for _, pack := range packs {
			for cat, exprs := range pack.Patterns {
				if err := compile(pack.Language, cat, exprs); err != nil {
					return err
				}
			}
		}
	}

	g.mu.Lock()
	g.patterns = tables
	g.mu.Unlock()
	return nil
}

// Validate scores the input against every pattern of every enabled language.
//
// It never fails: a disabled guard, or an input with no matches, produces a
// safe result with score zero. Matching is case-insensitive, overlapping
// matches all count, and scores accumulate across languages with no
// per-category cap.
func (g *Guard) Validate(input string, _ map[string]any) Result {
	now := time.Now().UTC()

	if !g.config.Enabled {
		return Result{
			Safe:        true,
			Severity:    SeverityLow,
			Threshold:   g.config.Threshold,
			InputLength: len(input),
			Timestamp:   now,
		}
	}

	g.mu.RLock()
	tables := g.patterns
	g.mu.RUnlock()

	var score int
	var matches []Match
	for _, lang := range g.config.Languages {
		for _, p := range tables[lang] {
			for _, span := range p.re.FindAllStringIndex(input, -1) {
				w := Weight(p.category)
				score += w
				matches = append(matches, Match{
					Category: p.category,
					Pattern:  p.source,
					Text:     input[span[0]:span[1]],
					Start:    span[0],
					End:      span[1],
					Weight:   w,
				})
			}
		}
	}

	result := Result{
		Safe:        score < g.config.Threshold,
		Score:       score,
		Severity:    severityForScore(score),
		Matches:     matches,
		Threshold:   g.config.Threshold,
		InputLength: len(input),
		Timestamp:   now,
	}

	g.mu.Lock()
	g.validations++
	if !result.Safe {
		g.detections++
		g.bySeverity[result.Severity]++
		g.lastDetected = now
	}
	g.mu.Unlock()

	if !result.Safe {
		g.logger.Warn("prompt injection detected",
			"score", result.Score,
			"severity", result.Severity,
			"matches", len(result.Matches),
		)
	}

	return result
}

// Statistics returns cumulative detection counters.
func (g *Guard) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dist := make(map[Severity]int, len(g.bySeverity))
	for k, v := range g.bySeverity {
		dist[k] = v
	}
	return Statistics{
		TotalValidations:     g.validations,
		TotalDetections:      g.detections,
		SeverityDistribution: dist,
		LastDetection:        g.lastDetected,
	}
}
