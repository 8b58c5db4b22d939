package testhelpers

// schemaSQL is the engine schema plus the row-level-security policies that
// enforce agency isolation. Every tenant table carries an agency_id column
// and a policy keyed on the app.current_agency_id session setting; a
// connection that never set the setting sees no tenant rows at all. The
// agencies table itself is platform-level and carries no policy.
const schemaSQL = `
CREATE ROLE rentora_app LOGIN PASSWORD 'app_password';

CREATE TABLE agencies (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'active',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE landlords (
    id        BIGSERIAL PRIMARY KEY,
    agency_id BIGINT NOT NULL REFERENCES agencies(id),
    name      TEXT NOT NULL,
    email     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE properties (
    id          BIGSERIAL PRIMARY KEY,
    agency_id   BIGINT NOT NULL REFERENCES agencies(id),
    landlord_id BIGINT NOT NULL REFERENCES landlords(id),
    address     TEXT NOT NULL,
    city        TEXT NOT NULL DEFAULT '',
    postcode    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE rooms (
    id          BIGSERIAL PRIMARY KEY,
    agency_id   BIGINT NOT NULL REFERENCES agencies(id),
    property_id BIGINT NOT NULL REFERENCES properties(id),
    name        TEXT NOT NULL
);

CREATE TABLE tenancies (
    id          BIGSERIAL PRIMARY KEY,
    agency_id   BIGINT NOT NULL REFERENCES agencies(id),
    room_id     BIGINT NOT NULL REFERENCES rooms(id),
    tenant_name TEXT NOT NULL,
    start_date  DATE NOT NULL,
    end_date    DATE,
    rent_cents  BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE rent_charges (
    id           BIGSERIAL PRIMARY KEY,
    agency_id    BIGINT NOT NULL REFERENCES agencies(id),
    tenancy_id   BIGINT NOT NULL REFERENCES tenancies(id),
    due_date     DATE NOT NULL,
    amount_cents BIGINT NOT NULL
);

CREATE TABLE rent_payments (
    id           BIGSERIAL PRIMARY KEY,
    agency_id    BIGINT NOT NULL REFERENCES agencies(id),
    tenancy_id   BIGINT NOT NULL REFERENCES tenancies(id),
    paid_at      DATE NOT NULL,
    amount_cents BIGINT NOT NULL
);

ALTER TABLE landlords     ENABLE ROW LEVEL SECURITY;
ALTER TABLE properties    ENABLE ROW LEVEL SECURITY;
ALTER TABLE rooms         ENABLE ROW LEVEL SECURITY;
ALTER TABLE tenancies     ENABLE ROW LEVEL SECURITY;
ALTER TABLE rent_charges  ENABLE ROW LEVEL SECURITY;
ALTER TABLE rent_payments ENABLE ROW LEVEL SECURITY;

CREATE POLICY agency_isolation ON landlords
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);
CREATE POLICY agency_isolation ON properties
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);
CREATE POLICY agency_isolation ON rooms
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);
CREATE POLICY agency_isolation ON tenancies
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);
CREATE POLICY agency_isolation ON rent_charges
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);
CREATE POLICY agency_isolation ON rent_payments
    USING (agency_id = NULLIF(current_setting('app.current_agency_id', true), '')::bigint);

GRANT USAGE ON SCHEMA public TO rentora_app;
GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO rentora_app;
GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA public TO rentora_app;
`
