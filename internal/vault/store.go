package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/kmorrow/lockbox/internal/audit"
	"github.com/kmorrow/lockbox/internal/crypto"
	"github.com/kmorrow/lockbox/internal/events"
	"github.com/kmorrow/lockbox/internal/models"
)

const vaultFileMode = 0o600

// Store owns one vault file. It moves through locked and unlocked states:
// Init and Load acquire the cross-process lock, mutations work on the
// in-memory record set, Save persists atomically and re-locks, and Close
// releases the lock and zeroizes whatever plaintext is still held. There is
// no global current-vault state; every caller constructs its own Store.
type Store struct {
	path   string
	logger *events.Logger
	params crypto.KDFParams
	trail  *audit.Trail

	fileLock *flock.Flock
	data     *models.VaultData
}

// Option configures a Store.
type Option func(*Store)

// WithKDFParams overrides the derivation costs for newly written envelopes.
// Envelopes on disk are always read with their own stored parameters.
func WithKDFParams(p crypto.KDFParams) Option {
	return func(s *Store) { s.params = p }
}

// WithAudit attaches an operation trail. Audit failures never fail the
// operation itself; they are logged and dropped.
func WithAudit(trail *audit.Trail) Option {
	return func(s *Store) { s.trail = trail }
}

// New creates a store for the vault at path. Nothing is read or locked
// until Init or Load.
func New(path string, logger *events.Logger, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logger.WithField("component", "vault_store"),
		params: crypto.DefaultKDFParams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the vault file path.
func (s *Store) Path() string {
	return s.path
}

// Init creates a new vault file holding an empty record set. Fails with
// ErrAlreadyExists if the path is already occupied. The store stays locked
// afterwards; Load unlocks it.
func (s *Store) Init(ctx context.Context, passphrase *crypto.SecretBuffer) error {
	// The lock file lives next to the vault, so the directory has to exist
	// before the lock can.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}

	// Lock before the exists-check so two concurrent inits cannot both pass
	// it and overwrite each other.
	if err := s.acquireLock(); err != nil {
		return err
	}

	if _, err := os.Stat(s.path); err == nil {
		s.releaseLock()
		return models.ErrAlreadyExists
	} else if !os.IsNotExist(err) {
		s.releaseLock()
		return fmt.Errorf("stat vault: %w", err)
	}

	data := models.NewVaultData()
	if err := s.persist(ctx, passphrase, data); err != nil {
		s.releaseLock()
		return err
	}

	s.logger.WithField("path", s.path).Info("Vault initialized")
	s.recordAudit(audit.OpInit, "")
	return nil
}

// Load reads the envelope, derives the key from its stored salt and
// parameters, and decrypts the record set into memory. An authentication
// failure surfaces as ErrWrongPassphraseOrCorrupt; whether the passphrase
// was wrong or the file was tampered with is deliberately not exposed.
func (s *Store) Load(ctx context.Context, passphrase *crypto.SecretBuffer) error {
	// Lock before reading. An envelope read outside the lock can go stale
	// against a concurrent save and resurrect the old contents.
	if err := s.acquireLock(); err != nil {
		return err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.releaseLock()
		if os.IsNotExist(err) {
			return models.ErrVaultNotFound
		}
		return fmt.Errorf("read vault: %w", err)
	}

	env, err := DecodeEnvelope(raw)
	if err != nil {
		s.releaseLock()
		return err
	}

	params, err := env.KDFParams()
	if err != nil {
		s.releaseLock()
		return err
	}

	if err := ctx.Err(); err != nil {
		s.releaseLock()
		return err
	}

	key, err := crypto.Derive(passphrase, env.Salt, params)
	if err != nil {
		s.releaseLock()
		return err
	}
	defer key.Destroy()

	plaintext, err := crypto.Open(key, env.Nonce, env.Ciphertext)
	if err != nil {
		s.releaseLock()
		// Internal detail only; the returned error does not say which
		// check failed.
		s.logger.WithField("path", s.path).Debug("Envelope authentication failed")
		return models.ErrWrongPassphraseOrCorrupt
	}

	data, err := DecodePayload(plaintext)
	crypto.Wipe(plaintext)
	if err != nil {
		s.releaseLock()
		return err
	}

	s.data = data
	s.logger.WithFields(map[string]interface{}{
		"path":    s.path,
		"records": data.Len(),
	}).Debug("Vault unlocked")
	s.recordAudit(audit.OpLoad, "")
	return nil
}

// Add inserts a record into the unlocked vault. In-memory only until Save.
func (s *Store) Add(rec models.Record) error {
	if s.data == nil {
		return models.ErrVaultSealed
	}
	if rec.Label == "" {
		return models.ErrEmptyLabel
	}
	if err := s.data.Add(rec); err != nil {
		return err
	}
	s.recordAudit(audit.OpAdd, rec.Label)
	return nil
}

// Get returns the record for label without mutating anything.
func (s *Store) Get(label string) (models.Record, error) {
	if s.data == nil {
		return models.Record{}, models.ErrVaultSealed
	}
	rec, err := s.data.Get(label)
	if err != nil {
		return models.Record{}, err
	}
	s.recordAudit(audit.OpGet, label)
	return rec, nil
}

// List returns record summaries in insertion order. Secrets are omitted.
func (s *Store) List() ([]models.RecordSummary, error) {
	if s.data == nil {
		return nil, models.ErrVaultSealed
	}
	s.recordAudit(audit.OpList, "")
	return s.data.List(), nil
}

// Search returns summaries of records matching the query.
func (s *Store) Search(query string) ([]models.RecordSummary, error) {
	if s.data == nil {
		return nil, models.ErrVaultSealed
	}
	var out []models.RecordSummary
	for _, rec := range s.data.Records {
		if rec.MatchesSearch(query) {
			out = append(out, models.RecordSummary{
				Label:     rec.Label,
				Username:  rec.Username,
				UpdatedAt: rec.UpdatedAt,
			})
		}
	}
	return out, nil
}

// Update replaces the record for label and refreshes its timestamp.
func (s *Store) Update(label string, rec models.Record) error {
	if s.data == nil {
		return models.ErrVaultSealed
	}
	if err := s.data.Update(label, rec); err != nil {
		return err
	}
	s.recordAudit(audit.OpUpdate, label)
	return nil
}

// Delete removes the record for label.
func (s *Store) Delete(label string) error {
	if s.data == nil {
		return models.ErrVaultSealed
	}
	if err := s.data.Delete(label); err != nil {
		return err
	}
	s.recordAudit(audit.OpDelete, label)
	return nil
}

// Save re-encrypts the full record set under a fresh salt and nonce and
// replaces the vault file atomically. On success the plaintext is zeroized
// and the store returns to the locked state; this is the only path that
// persists changes.
func (s *Store) Save(ctx context.Context, passphrase *crypto.SecretBuffer) error {
	if s.data == nil {
		return models.ErrVaultSealed
	}

	if err := s.persist(ctx, passphrase, s.data); err != nil {
		return err
	}

	s.data.Wipe()
	s.data = nil
	s.recordAudit(audit.OpSave, "")
	return nil
}

// Close zeroizes any held plaintext and releases the cross-process lock.
// Always safe to defer.
func (s *Store) Close() error {
	if s.data != nil {
		s.data.Wipe()
		s.data = nil
	}
	s.releaseLock()
	return nil
}

// persist encodes, seals, and atomically writes a new envelope. The salt is
// rotated on every write, so two snapshots of the same vault never share
// derivation inputs. The write goes to a temp file in the same directory,
// is flushed to disk, and then renamed over the target; a crash at any
// point leaves either the old envelope or the new one, never a hybrid.
func (s *Store) persist(ctx context.Context, passphrase *crypto.SecretBuffer, data *models.VaultData) error {
	plaintext, err := EncodePayload(data)
	if err != nil {
		return err
	}
	defer crypto.Wipe(plaintext)

	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := crypto.Derive(passphrase, salt, s.params)
	if err != nil {
		return err
	}
	defer key.Destroy()

	nonce, err := crypto.NewNonce()
	if err != nil {
		return err
	}

	ciphertext, err := crypto.Seal(key, nonce, plaintext)
	if err != nil {
		return err
	}

	env := &Envelope{
		Version:        FormatVersion,
		KDFAlgorithm:   crypto.KDFAlgorithmArgon2id,
		KDFMemoryKiB:   s.params.MemoryKiB,
		KDFTime:        s.params.Time,
		KDFParallelism: uint32(s.params.Parallelism),
		Salt:           salt,
		Nonce:          nonce,
		Ciphertext:     ciphertext,
	}

	raw, err := EncodeEnvelope(env)
	if err != nil {
		return err
	}

	if err := atomicWrite(s.path, raw); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"path":    s.path,
		"records": data.Len(),
		"size":    len(raw),
	}).Debug("Vault persisted")
	return nil
}

// atomicWrite stages data in a temp file in the target's directory, fsyncs,
// and renames over the target. A leftover temp file from a crash is inert;
// nothing ever loads from it.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(vaultFileMode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// acquireLock takes the advisory lock on the sibling lock file without
// blocking. A held lock means another process is inside load-through-save;
// the engine fails fast and leaves retry policy to the caller.
func (s *Store) acquireLock() error {
	if s.fileLock != nil {
		return nil
	}

	lock := flock.New(s.path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire vault lock: %w", err)
	}
	if !ok {
		return models.ErrVaultBusy
	}

	s.fileLock = lock
	return nil
}

func (s *Store) releaseLock() {
	if s.fileLock == nil {
		return
	}
	if err := s.fileLock.Unlock(); err != nil {
		s.logger.WithError(err).Warn("Failed to release vault lock")
	}
	s.fileLock = nil
}

func (s *Store) recordAudit(op, label string) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(op, label, s.path); err != nil {
		s.logger.WithError(err).Warn("Failed to record audit entry")
	}
}
