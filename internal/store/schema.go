package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS forecasts (
    request_hash         TEXT PRIMARY KEY,
    response             BLOB NOT NULL,
    fetched_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecasts_fetched ON forecasts(fetched_at);
`
