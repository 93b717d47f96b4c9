package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and A/B testing.
// Supports gradual rollout, learner targeting, and time-based activation.
//
// The ads kill switch lives here too: toggling it from the admin console
// must survive concurrent API traffic, so all reads and flips go through
// the same lock as the rest of the flags.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[int64]map[string]bool // telegramID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Learners are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  int64 // Telegram ID
	IsAdmin bool  // Is admin user
}

// Predefined feature flag names.
const (
	// === Ads ===
	FeatureAdsGlobalSlots = "ads.global_slots" // tenant-wide ad slots kill switch

	// === Lesson modes ===
	FeatureLessonsDialog  = "lessons.dialog"  // AI dialog mode
	FeatureLessonsVoice   = "lessons.voice"   // voice mode
	FeatureLessonsCards   = "lessons.cards"   // word cards
	FeatureLessonsPodcast = "lessons.podcast" // podcast mode

	// === Monetization ===
	FeatureVipPlans        = "vip.plans"        // VIP purchase flow
	FeatureReferralProgram = "referral.program" // invite friends for VIP days

	// === Assistant ===
	FeatureAssistantDeepSeek = "assistant.deepseek" // upstream AI calls

	// === Experimental ===
	FeatureExperimentalStreakFreeze = "experimental.streak_freeze" // pause without losing streak
	FeatureExperimentalAnalytics    = "experimental.analytics"     // advanced admin analytics
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[int64]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Ads run by default; the admin console flips this one at runtime.
	ff.features[FeatureAdsGlobalSlots] = &Feature{
		Name:           FeatureAdsGlobalSlots,
		Description:    "Tenant-wide ad slots",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Lesson modes
	ff.features[FeatureLessonsDialog] = &Feature{
		Name:           FeatureLessonsDialog,
		Description:    "AI dialog lessons",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLessonsVoice] = &Feature{
		Name:           FeatureLessonsVoice,
		Description:    "Voice lessons",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLessonsCards] = &Feature{
		Name:           FeatureLessonsCards,
		Description:    "Word cards",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLessonsPodcast] = &Feature{
		Name:           FeatureLessonsPodcast,
		Description:    "Podcast lessons",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout
	}

	// Monetization
	ff.features[FeatureVipPlans] = &Feature{
		Name:           FeatureVipPlans,
		Description:    "VIP purchase flow",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureReferralProgram] = &Feature{
		Name:           FeatureReferralProgram,
		Description:    "Referral rewards",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Assistant
	ff.features[FeatureAssistantDeepSeek] = &Feature{
		Name:           FeatureAssistantDeepSeek,
		Description:    "DeepSeek upstream calls",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalStreakFreeze] = &Feature{
		Name:           FeatureExperimentalStreakFreeze,
		Description:    "Pause learning without losing streak",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Advanced admin analytics",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_LESSONS_PODCAST=true
// Example: FEATURE_LESSONS_PODCAST=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "lessons.podcast" -> "FEATURE_LESSONS_PODCAST"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != 0 {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != 0 {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a learner is in the rollout percentage.
// Uses consistent hashing so learners stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID int64, featureName string, percent int) bool {
	// Create a consistent hash for this user+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a learner.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	feature, ok := ff.features[featureName]
	ff.mu.RUnlock()

	if !ok || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(strconv.FormatInt(ctx.UserID, 10)))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific learner.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID int64, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a learner.
func (ff *FeatureFlags) ClearUserOverrides(userID int64) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Ads kill switch ---
//
// The admin console toggles ad slots for the whole tenant. The application
// layer consumes this through small read/write interfaces, so the flag
// store doubles as the switch implementation.

// AdsDisabledGlobally reports whether the tenant kill switch is on.
func (ff *FeatureFlags) AdsDisabledGlobally() bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[FeatureAdsGlobalSlots]
	if !ok {
		return false
	}
	return !feature.Enabled
}

// ToggleGlobal flips the kill switch and returns true when ads are
// globally enabled after the flip.
func (ff *FeatureFlags) ToggleGlobal() bool {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[FeatureAdsGlobalSlots]
	if !ok {
		feature = &Feature{Name: FeatureAdsGlobalSlots, Description: "Tenant-wide ad slots"}
		ff.features[FeatureAdsGlobalSlots] = feature
	}

	feature.Enabled = !feature.Enabled
	if feature.Enabled {
		feature.RolloutPercent = 100
	} else {
		feature.RolloutPercent = 0
	}
	return feature.Enabled
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
