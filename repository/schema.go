package repository

const schemaSQL = `
CREATE TABLE IF NOT EXISTS score_records (
    id                   TEXT PRIMARY KEY,
    created_at_ns        INTEGER NOT NULL,
    profile              TEXT NOT NULL,
    total_score          REAL NOT NULL,
    grade                TEXT NOT NULL,
    component_scores     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS loan_calculations (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    amount               REAL NOT NULL,
    interest_rate        REAL NOT NULL,
    term_months          INTEGER NOT NULL,
    monthly_payment      REAL NOT NULL,
    total_payment        REAL NOT NULL,
    total_interest       REAL NOT NULL,
    created_at_ns        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_score_records_created ON score_records(created_at_ns);
`
