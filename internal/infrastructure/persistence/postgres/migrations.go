package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE LEARNER ENTITLEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create learner_entitlements table
-- Version: 001

-- One row per learner, keyed by Telegram ID. Holds the quota and
-- entitlement state the policy engine works on.
CREATE TABLE IF NOT EXISTS learner_entitlements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    telegram_id BIGINT NOT NULL UNIQUE,
    focus VARCHAR(20) NOT NULL DEFAULT 'travel',
    daily_limit INTEGER NOT NULL DEFAULT 12,
    daily_used INTEGER NOT NULL DEFAULT 0,
    weekly_word_limit INTEGER NOT NULL DEFAULT 50,
    weekly_words_used INTEGER NOT NULL DEFAULT 0,
    is_vip BOOLEAN NOT NULL DEFAULT FALSE,
    ads_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    break_active BOOLEAN NOT NULL DEFAULT FALSE,
    limit_before_break INTEGER NOT NULL DEFAULT 0,
    referral_count INTEGER NOT NULL DEFAULT 0,
    referral_target INTEGER NOT NULL DEFAULT 10,
    vip_reward_days INTEGER NOT NULL DEFAULT 30,
    last_lesson_topic VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_focus CHECK (focus IN ('travel', 'work', 'exam', 'culture')),
    CONSTRAINT valid_daily_limit CHECK (daily_limit >= 0),
    CONSTRAINT valid_daily_used CHECK (daily_used >= 0),
    CONSTRAINT valid_weekly_limit CHECK (weekly_word_limit >= 0),
    CONSTRAINT valid_weekly_used CHECK (weekly_words_used >= 0),
    CONSTRAINT valid_referrals CHECK (referral_count >= 0 AND referral_target > 0)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_learner_entitlements_telegram_id ON learner_entitlements(telegram_id);
CREATE INDEX IF NOT EXISTS idx_learner_entitlements_vip ON learner_entitlements(is_vip) WHERE is_vip = TRUE;
CREATE INDEX IF NOT EXISTS idx_learner_entitlements_break ON learner_entitlements(break_active) WHERE break_active = TRUE;

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_learner_entitlements_updated_at ON learner_entitlements;
CREATE TRIGGER update_learner_entitlements_updated_at
    BEFORE UPDATE ON learner_entitlements
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_learner_entitlements_updated_at ON learner_entitlements;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS learner_entitlements;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create users directory table
-- Version: 002
-- Purpose: keyed replacement of the old flat user list

CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    first_name VARCHAR(100) NOT NULL DEFAULT '',
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    username VARCHAR(100) NOT NULL DEFAULT '',
    language_code VARCHAR(10) NOT NULL DEFAULT 'ru',
    last_seen_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_last_seen_at ON users(last_seen_at DESC);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username) WHERE username != '';
`

const migration002Down = `
DROP TABLE IF EXISTS users;
`
