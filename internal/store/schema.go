package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE,
    month                TEXT NOT NULL,
    income               TEXT NOT NULL,
    commitments          INTEGER NOT NULL,
    savings              INTEGER NOT NULL,
    transactions         INTEGER NOT NULL,
    payload              TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at);
`
