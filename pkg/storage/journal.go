// Package storage keeps an append-only Pebble journal of executed trades,
// swaps and liquidity provisions. The journal is audit output only; the
// engine never reads it back.
package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/uhyunpark/hyperswap/pkg/app/core/asset"
	"github.com/uhyunpark/hyperswap/pkg/app/core/engine"
	"github.com/uhyunpark/hyperswap/pkg/util"
)

type TradeRecord struct {
	Seq       uint64
	Timestamp uint64
	Trade     engine.Trade
}

type SwapRecord struct {
	Seq       uint64
	Timestamp uint64
	Swap      engine.SwapReceipt
}

type ProvisionRecord struct {
	Seq       uint64
	Timestamp uint64
	Provision engine.ProvisionReceipt
}

type Journal struct {
	db     *pebble.DB
	seq    uint64
	logger *zap.Logger
}

// Open opens or creates the journal at path. Sequence numbers continue
// from the last record written.
func Open(path string, logger *zap.Logger) (*Journal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	j := &Journal{db: db, logger: logger}

	val, closer, err := db.Get(kSeq())
	switch {
	case err == pebble.ErrNotFound:
	case err != nil:
		_ = db.Close()
		return nil, fmt.Errorf("read journal sequence: %w", err)
	default:
		j.seq = decodeSeq(val)
		closer.Close()
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Seq returns the sequence number of the last record written.
func (j *Journal) Seq() uint64 { return j.seq }

// append writes the record under key and the new sequence number in one
// synced batch.
func (j *Journal) append(key func(seq uint64) []byte, build func(seq uint64) any) (uint64, error) {
	seq := j.seq + 1
	val, err := encodeGob(build(seq))
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}

	b := j.db.NewBatch()
	defer b.Close()
	if err := b.Set(key(seq), val, nil); err != nil {
		return 0, err
	}
	if err := b.Set(kSeq(), encodeSeq(seq), nil); err != nil {
		return 0, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("commit record %d: %w", seq, err)
	}
	j.seq = seq
	return seq, nil
}

func (j *Journal) RecordTrade(ts uint64, t engine.Trade) (uint64, error) {
	return j.append(
		func(seq uint64) []byte { return tradeKey(t.Asset, seq) },
		func(seq uint64) any { return TradeRecord{Seq: seq, Timestamp: ts, Trade: t} },
	)
}

func (j *Journal) RecordSwap(ts uint64, r engine.SwapReceipt) (uint64, error) {
	return j.append(
		func(seq uint64) []byte { return swapKey(r.Pool, seq) },
		func(seq uint64) any { return SwapRecord{Seq: seq, Timestamp: ts, Swap: r} },
	)
}

func (j *Journal) RecordProvision(ts uint64, r engine.ProvisionReceipt) (uint64, error) {
	return j.append(
		func(seq uint64) []byte { return provisionKey(r.Pool, seq) },
		func(seq uint64) any { return ProvisionRecord{Seq: seq, Timestamp: ts, Provision: r} },
	)
}

// Trades returns up to limit trades for id, newest first. limit <= 0
// returns all of them.
func (j *Journal) Trades(id asset.AssetID, limit int) ([]TradeRecord, error) {
	return scanNewest[TradeRecord](j.db, tradePrefix(id), limit)
}

// Swaps returns up to limit swaps executed in pool, newest first.
func (j *Journal) Swaps(pool asset.Pair, limit int) ([]SwapRecord, error) {
	return scanNewest[SwapRecord](j.db, swapPrefix(pool), limit)
}

// Provisions returns up to limit accepted deposits into pool, newest first.
func (j *Journal) Provisions(pool asset.Pair, limit int) ([]ProvisionRecord, error) {
	return scanNewest[ProvisionRecord](j.db, provisionPrefix(pool), limit)
}

func scanNewest[T any](db *pebble.DB, prefix []byte, limit int) ([]T, error) {
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []T
	for iter.Last(); iter.Valid(); iter.Prev() {
		var rec T
		if err := decodeGob(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", iter.Key(), err)
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, iter.Error()
}

// Attach journals every trade, swap and provision e reports from now on,
// stamping records with clock. Existing observers keep running first.
// Write failures are logged; they never reach the engine.
func (j *Journal) Attach(e *engine.MatchingEngine, clock util.Clock) {
	prevTrade, prevSwap, prevProvision := e.OnTrade, e.OnSwap, e.OnProvision

	e.OnTrade = func(t engine.Trade) {
		if prevTrade != nil {
			prevTrade(t)
		}
		if _, err := j.RecordTrade(util.Timestamp(clock), t); err != nil {
			j.logger.Warn("journal_trade_failed", zap.Stringer("asset", t.Asset), zap.Error(err))
		}
	}
	e.OnSwap = func(r engine.SwapReceipt) {
		if prevSwap != nil {
			prevSwap(r)
		}
		if _, err := j.RecordSwap(util.Timestamp(clock), r); err != nil {
			j.logger.Warn("journal_swap_failed", zap.Stringer("pool", r.Pool), zap.Error(err))
		}
	}
	e.OnProvision = func(r engine.ProvisionReceipt) {
		if prevProvision != nil {
			prevProvision(r)
		}
		if _, err := j.RecordProvision(util.Timestamp(clock), r); err != nil {
			j.logger.Warn("journal_provision_failed", zap.Stringer("pool", r.Pool), zap.Error(err))
		}
	}
}
