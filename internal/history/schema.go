package history

const schema = `
-- The 'sessions' table stores one row per finished or aborted quiz session.
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    user TEXT NOT NULL,
    bank TEXT NOT NULL,
    total INTEGER NOT NULL,
    score INTEGER NOT NULL,
    wrong INTEGER NOT NULL,
    percent REAL NOT NULL,
    export_path TEXT
);
`
