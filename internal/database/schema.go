package database

// Tables for users, notes, tags, and the note-tag join. Tag names are
// unique per owner; join rows cascade with either side.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name          text NOT NULL,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS note (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title      text NOT NULL,
	content    text NOT NULL DEFAULT '',
	type       text NOT NULL DEFAULT 'note',
	user_id    uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tag (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name       text NOT NULL,
	user_id    uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT tag_name_user_idx UNIQUE (name, user_id)
);

CREATE TABLE IF NOT EXISTS note_tag (
	note_id uuid NOT NULL REFERENCES note (id) ON DELETE CASCADE,
	tag_id  uuid NOT NULL REFERENCES tag (id) ON DELETE CASCADE,
	PRIMARY KEY (note_id, tag_id)
);

CREATE INDEX IF NOT EXISTS note_user_updated_idx ON note (user_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS note_type_updated_idx ON note (type, updated_at DESC);
`
