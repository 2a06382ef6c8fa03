package mysql

// Slots are append-mostly: created once, data rewritten in place, never
// deleted. Address and owner are raw 32-byte values.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
  address    VARBINARY(32) NOT NULL PRIMARY KEY,
  owner      VARBINARY(32) NOT NULL,
  size       INT UNSIGNED  NOT NULL,
  lamports   BIGINT UNSIGNED NOT NULL,
  data       BLOB          NOT NULL,
  created_at TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)
`

const insertSlotSQL = `
INSERT INTO slots (address, owner, size, lamports, data)
VALUES (?, ?, ?, ?, ?)
`

const getSlotSQL = `
SELECT owner, lamports, data
FROM slots
WHERE address = ?
`

const existsSlotSQL = `
SELECT 1 FROM slots WHERE address = ?
`

const updateSlotDataSQL = `
UPDATE slots SET data = ? WHERE address = ?
`

const getSlotSizeSQL = `
SELECT size FROM slots WHERE address = ?
`

const listAddressesSQL = `
SELECT address FROM slots ORDER BY created_at, address
`
