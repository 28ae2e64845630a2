package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS headings (
    heading_id           INTEGER PRIMARY KEY,
    name                 TEXT NOT NULL,
    total_budget         REAL NOT NULL,
    initial_negotiable   REAL NOT NULL,
    resources_added      REAL NOT NULL,
    current_negotiable   REAL NOT NULL,
    committed            REAL NOT NULL,
    spent                REAL NOT NULL,
    remaining            REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS proposals (
    proposal_id          TEXT PRIMARY KEY,
    seq                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    committee            TEXT NOT NULL,
    cost                 REAL NOT NULL,
    heading_id           INTEGER NOT NULL REFERENCES headings(heading_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS resources (
    resource_id          TEXT PRIMARY KEY,
    seq                  INTEGER NOT NULL,
    committee            TEXT NOT NULL,
    amount               REAL NOT NULL,
    heading_id           INTEGER NOT NULL REFERENCES headings(heading_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_proposals_heading ON proposals(heading_id);
CREATE INDEX IF NOT EXISTS idx_resources_heading ON resources(heading_id);
`
