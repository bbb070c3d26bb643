// Package journal keeps an append-only SQL log of every instruction and
// airdrop a ledger decided, and can replay the accepted ones into a fresh ledger.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/streakcore"
)

const (
	KindInstruction = "instruction"
	KindAirdrop     = "airdrop"
)

var ErrDiverged = errors.New("replay diverged from journal")

// Entry is one journal row. Seq orders entries in decision order.
type Entry struct {
	Seq       uint64 `gorm:"primaryKey;autoIncrement"`
	UUID      string `gorm:"uniqueIndex;size:36"`
	Kind      string `gorm:"index;size:16"`
	Op        string `gorm:"index;size:32"`
	Signer    string `gorm:"index;size:44"`
	Accounts  string
	Data      []byte
	Lamports  uint64
	Now       int64
	Code      uint32
	Error     string
	CreatedAt time.Time
}

// Accepted reports whether the ledger applied the entry.
func (e *Entry) Accepted() bool {
	return e.Error == ""
}

// Instruction rebuilds the journaled instruction.
func (e *Entry) Instruction() (inter.Instruction, error) {
	var ix inter.Instruction
	signer, err := pubkey.FromString(e.Signer)
	if err != nil {
		return ix, fmt.Errorf("entry %d signer: %w", e.Seq, err)
	}
	ix.Signer = signer
	if e.Accounts != "" {
		for _, s := range strings.Split(e.Accounts, ",") {
			pk, err := pubkey.FromString(s)
			if err != nil {
				return ix, fmt.Errorf("entry %d accounts: %w", e.Seq, err)
			}
			ix.Accounts = append(ix.Accounts, pk)
		}
	}
	ix.Data = append([]byte(nil), e.Data...)
	return ix, nil
}

// Filter narrows Entries. Zero fields match everything.
type Filter struct {
	Signer       *pubkey.Pubkey
	Op           inter.Opcode
	AcceptedOnly bool
	Limit        int
}

// Journal is safe for concurrent use.
type Journal struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// Open opens or creates the sqlite journal at dsn.
func Open(dsn string, log logrus.FieldLogger) (*Journal, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	log.WithField("dsn", dsn).Debug("Journal opened")
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func joinAccounts(accounts []pubkey.Pubkey) string {
	parts := make([]string, len(accounts))
	for i, a := range accounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

// RecordInstruction appends ix together with the outcome the ledger decided.
func (j *Journal) RecordInstruction(ctx context.Context, ix inter.Instruction, now int64, ixErr error) error {
	e := &Entry{
		UUID:     uuid.NewString(),
		Kind:     KindInstruction,
		Op:       ix.Op().String(),
		Signer:   ix.Signer.String(),
		Accounts: joinAccounts(ix.Accounts),
		Data:     append([]byte(nil), ix.Data...),
		Now:      now,
	}
	if ixErr != nil {
		e.Code = streakcore.CodeOf(ixErr)
		e.Error = ixErr.Error()
	}
	return j.db.WithContext(ctx).Create(e).Error
}

// RecordAirdrop appends a balance credit.
func (j *Journal) RecordAirdrop(ctx context.Context, owner pubkey.Pubkey, lamports uint64, now int64) error {
	return j.db.WithContext(ctx).Create(&Entry{
		UUID:     uuid.NewString(),
		Kind:     KindAirdrop,
		Signer:   owner.String(),
		Lamports: lamports,
		Now:      now,
	}).Error
}

// Entries returns matching entries in Seq order.
func (j *Journal) Entries(ctx context.Context, f Filter) ([]*Entry, error) {
	q := j.db.WithContext(ctx).Order("seq")
	if f.Signer != nil {
		q = q.Where("signer = ?", f.Signer.String())
	}
	if f.Op != inter.OpUnknown {
		q = q.Where("kind = ? AND op = ?", KindInstruction, f.Op.String())
	}
	if f.AcceptedOnly {
		q = q.Where("error = ?", "")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var entries []*Entry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	err := j.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error
	return n, err
}
