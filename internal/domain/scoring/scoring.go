// Package scoring resolves the passing threshold of a training for an
// employee and evaluates scored attempts against it.
package scoring

const (
	DefaultRequiredScore = 70.0
	MinScore             = 0.0
	MaxScore             = 100.0
)

const (
	StatusPass = "Pass"
	StatusFail = "Fail"
)

// LevelDefaults apply when no required score is stored for a level.
var LevelDefaults = map[int]float64{1: 70, 2: 75, 3: 80}

// Levels that carry a configurable required score.
var Levels = []int{1, 2, 3}

type MatrixEntry struct {
	Department    string  `json:"department"`
	Level         int     `json:"level"`
	RequiredScore float64 `json:"requiredScore"`
}

// Config is the scoring section of a training.
type Config struct {
	RequiredScore *float64      `json:"requiredScore,omitempty"`
	Matrix        []MatrixEntry `json:"requiredScoreMatrix,omitempty"`
}

type Profile struct {
	Department string
	Level      int
}

// LevelTable holds stored required scores keyed by level.
type LevelTable map[int]float64

// Resolution explains where a required score came from.
type Resolution struct {
	RequiredScore float64 `json:"requiredScore"`
	Source        string  `json:"source"`
}

const (
	SourceMatrix       = "matrix"
	SourceFlat         = "training"
	SourceLevel        = "level"
	SourceLevelDefault = "level_default"
	SourceDefault      = "default"
)

// Resolve applies matrix, then flat score, then per-level precedence.
// A matrix without a matching row skips the flat score entirely.
func Resolve(p Profile, cfg Config, levels LevelTable) Resolution {
	if len(cfg.Matrix) > 0 {
		for _, entry := range cfg.Matrix {
			// Departments must match exactly; "Sales" and "sales " are different rows.
			if entry.Level == p.Level && entry.Department == p.Department {
				return Resolution{RequiredScore: entry.RequiredScore, Source: SourceMatrix}
			}
		}
		return levelDefault(p.Level, levels)
	}
	if cfg.RequiredScore != nil {
		return Resolution{RequiredScore: *cfg.RequiredScore, Source: SourceFlat}
	}
	return levelDefault(p.Level, levels)
}

func ResolveRequiredScore(p Profile, cfg Config, levels LevelTable) float64 {
	return Resolve(p, cfg, levels).RequiredScore
}

func levelDefault(level int, levels LevelTable) Resolution {
	if score, ok := levels[level]; ok {
		return Resolution{RequiredScore: score, Source: SourceLevel}
	}
	if score, ok := LevelDefaults[level]; ok {
		return Resolution{RequiredScore: score, Source: SourceLevelDefault}
	}
	return Resolution{RequiredScore: DefaultRequiredScore, Source: SourceDefault}
}

// Gap is nil until a score has been achieved, so "not assessed" never reads as "met".
func Gap(required float64, achieved *float64) *float64 {
	if achieved == nil {
		return nil
	}
	gap := required - *achieved
	if gap < 0 {
		gap = 0
	}
	return &gap
}

func Clamp(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Evaluate clamps the achieved score and compares it with the threshold.
func Evaluate(achieved, required float64) (float64, string) {
	clamped := Clamp(achieved)
	if clamped >= required {
		return clamped, StatusPass
	}
	return clamped, StatusFail
}

func IsConfigurableLevel(level int) bool {
	_, ok := LevelDefaults[level]
	return ok
}

// NormalizeLevelScore mirrors the upsert rule for stored level scores.
func NormalizeLevelScore(score *float64) float64 {
	if score == nil {
		return DefaultRequiredScore
	}
	return Clamp(*score)
}
