package sqlite

// schema is the current shape. A fresh database gets it directly; an older
// database reaches the same columns through the migration steps.
const schema = `
-- Decisions table
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT,
    level TEXT NOT NULL CHECK(level IN ('strategic', 'tactical', 'operational')),
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'superseded', 'deprecated', 'draft')),
    superseded_by TEXT,
    author TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    kind TEXT NOT NULL DEFAULT 'choice' CHECK(kind IN ('principle', 'constraint', 'assumption', 'choice', 'rule', 'goal')),
    weight TEXT NOT NULL DEFAULT 'should' CHECK(weight IN ('must', 'should', 'may')),
    rebuttal TEXT,
    scope TEXT
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
CREATE INDEX IF NOT EXISTS idx_decisions_status ON decisions(status);

-- Links table (directed, typed edges)
CREATE TABLE IF NOT EXISTS links (
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('refines', 'supports', 'supersedes', 'conflicts', 'requires', 'entails', 'excludes')),
    created_at TEXT NOT NULL,
    reason TEXT,
    PRIMARY KEY (source_id, target_id, kind),
    FOREIGN KEY (source_id) REFERENCES decisions(id),
    FOREIGN KEY (target_id) REFERENCES decisions(id)
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id);
CREATE INDEX IF NOT EXISTS idx_links_kind ON links(kind);

-- Labels table
CREATE TABLE IF NOT EXISTS labels (
    decision_id TEXT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (decision_id, label),
    FOREIGN KEY (decision_id) REFERENCES decisions(id)
);

CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label);
`

// decisionColumns is the select list shared by every decision query, in scan order.
const decisionColumns = `id, title, body, level, status, superseded_by, author,
	created_at, updated_at, kind, weight, rebuttal, scope`
