package genesis

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/tcfw/ccgenesis/pkg/tx"
)

type Statistic struct {
	ChangeAmount     tx.Amount `json:"changeAmount" msgpack:"ca"`
	ChangeCount      uint64    `json:"changeCount" msgpack:"cc"`
	MoveAmount       tx.Amount `json:"moveAmount" msgpack:"ma"`
	TransactionCount uint64    `json:"transactionCount" msgpack:"tc"`
}

func (s Statistic) add(o Statistic) (Statistic, error) {
	var err error

	if s.ChangeAmount, err = s.ChangeAmount.Add(o.ChangeAmount); err != nil {
		return s, err
	}
	if s.MoveAmount, err = s.MoveAmount.Add(o.MoveAmount); err != nil {
		return s, err
	}
	s.ChangeCount += o.ChangeCount
	s.TransactionCount += o.TransactionCount

	return s, nil
}

type TypeStatistics struct {
	TypeStatisticHashMap map[tx.Type]Statistic `json:"typeStatisticHashMap" msgpack:"t"`
	Total                Statistic             `json:"total" msgpack:"s"`
}

type AssetTypeStatistics struct {
	AssetTypeTypeStatisticHashMap map[string]TypeStatistics `json:"assetTypeTypeStatisticHashMap" msgpack:"a"`
}

// StatisticInfo summarises the genesis transactions. It is derived data and
// must always match a recount of the transactions.
type StatisticInfo struct {
	TotalFee                           tx.Amount                      `json:"totalFee" msgpack:"tf"`
	TotalAsset                         tx.Amount                      `json:"totalAsset" msgpack:"ta"`
	TotalChainAsset                    tx.Amount                      `json:"totalChainAsset" msgpack:"tc"`
	TotalAccount                       uint64                         `json:"totalAccount" msgpack:"n"`
	MagicAssetTypeTypeStatisticHashMap map[string]AssetTypeStatistics `json:"magicAssetTypeTypeStatisticHashMap" msgpack:"m"`
	NumberOfTransactionsHashMap        map[tx.Type]uint64             `json:"numberOfTransactionsHashMap" msgpack:"c"`
}

type statsBuilder struct {
	info  StatisticInfo
	chain AssetKey
	seen  map[string]struct{}
}

func (sb *statsBuilder) record(key AssetKey, t tx.Type, delta Statistic) error {
	m := sb.info.MagicAssetTypeTypeStatisticHashMap

	ats, ok := m[key.Magic]
	if !ok {
		ats = AssetTypeStatistics{AssetTypeTypeStatisticHashMap: map[string]TypeStatistics{}}
		m[key.Magic] = ats
	}

	ts, ok := ats.AssetTypeTypeStatisticHashMap[key.AssetType]
	if !ok {
		ts = TypeStatistics{TypeStatisticHashMap: map[tx.Type]Statistic{}}
	}

	s, err := ts.TypeStatisticHashMap[t].add(delta)
	if err != nil {
		return err
	}
	ts.TypeStatisticHashMap[t] = s

	if ts.Total, err = ts.Total.add(delta); err != nil {
		return err
	}

	ats.AssetTypeTypeStatisticHashMap[key.AssetType] = ts

	return nil
}

func (sb *statsBuilder) add(t *tx.Tx) error {
	var err error

	sb.info.NumberOfTransactionsHashMap[t.Type]++
	for _, a := range t.Accounts() {
		sb.seen[a] = struct{}{}
	}

	if sb.info.TotalFee, err = sb.info.TotalFee.Add(t.Fee); err != nil {
		return errors.Wrap(err, "summing fees")
	}

	if err := sb.record(sb.chain, t.Type, Statistic{
		ChangeAmount:     t.Fee,
		ChangeCount:      1,
		TransactionCount: 1,
	}); err != nil {
		return err
	}

	p, ok := t.Payload().(*tx.TransferAsset)
	if !ok {
		return nil
	}

	key := TransferKey(p)
	delta := Statistic{
		ChangeAmount: p.Amount,
		ChangeCount:  2,
		MoveAmount:   p.Amount,
	}
	if key != sb.chain {
		delta.TransactionCount = 1
	} else if sb.info.TotalChainAsset, err = sb.info.TotalChainAsset.Add(p.Amount); err != nil {
		return errors.Wrap(err, "summing chain asset")
	}

	if sb.info.TotalAsset, err = sb.info.TotalAsset.Add(p.Amount); err != nil {
		return errors.Wrap(err, "summing assets")
	}

	return sb.record(key, t.Type, delta)
}

// ComputeStatistics recounts the statistics of txs for a chain whose native
// asset is chain.
func ComputeStatistics(chain AssetKey, txs []*tx.Tx) (StatisticInfo, error) {
	sb := &statsBuilder{
		chain: chain,
		seen:  map[string]struct{}{},
		info: StatisticInfo{
			MagicAssetTypeTypeStatisticHashMap: map[string]AssetTypeStatistics{},
			NumberOfTransactionsHashMap:        map[tx.Type]uint64{},
		},
	}

	for i, t := range txs {
		if err := sb.add(t); err != nil {
			return StatisticInfo{}, errors.Wrapf(err, "tx %d", i)
		}
	}

	sb.info.TotalAccount = uint64(len(sb.seen))

	return sb.info, nil
}

// Diff lists the differences between s and o. It is empty when both carry
// the same statistics. Missing and empty maps are treated alike.
func (s StatisticInfo) Diff(o StatisticInfo) []string {
	var d []string

	amount := func(name string, a, b tx.Amount) {
		if a != b {
			d = append(d, fmt.Sprintf("%s: %s != %s", name, a, b))
		}
	}
	count := func(name string, a, b uint64) {
		if a != b {
			d = append(d, fmt.Sprintf("%s: %d != %d", name, a, b))
		}
	}
	stat := func(name string, a, b Statistic) {
		amount(name+".changeAmount", a.ChangeAmount, b.ChangeAmount)
		count(name+".changeCount", a.ChangeCount, b.ChangeCount)
		amount(name+".moveAmount", a.MoveAmount, b.MoveAmount)
		count(name+".transactionCount", a.TransactionCount, b.TransactionCount)
	}

	amount("totalFee", s.TotalFee, o.TotalFee)
	amount("totalAsset", s.TotalAsset, o.TotalAsset)
	amount("totalChainAsset", s.TotalChainAsset, o.TotalChainAsset)
	count("totalAccount", s.TotalAccount, o.TotalAccount)

	for _, t := range unionKeys(s.NumberOfTransactionsHashMap, o.NumberOfTransactionsHashMap) {
		count("numberOfTransactions["+string(t)+"]", s.NumberOfTransactionsHashMap[t], o.NumberOfTransactionsHashMap[t])
	}

	for _, magic := range unionKeys(s.MagicAssetTypeTypeStatisticHashMap, o.MagicAssetTypeTypeStatisticHashMap) {
		sa := s.MagicAssetTypeTypeStatisticHashMap[magic].AssetTypeTypeStatisticHashMap
		oa := o.MagicAssetTypeTypeStatisticHashMap[magic].AssetTypeTypeStatisticHashMap

		for _, at := range unionKeys(sa, oa) {
			prefix := magic + "/" + at
			stat(prefix+".total", sa[at].Total, oa[at].Total)

			for _, t := range unionKeys(sa[at].TypeStatisticHashMap, oa[at].TypeStatisticHashMap) {
				stat(prefix+"["+string(t)+"]", sa[at].TypeStatisticHashMap[t], oa[at].TypeStatisticHashMap[t])
			}
		}
	}

	return d
}

func unionKeys[K ~string, V any](a, b map[K]V) []K {
	seen := make(map[K]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}

	keys := make([]K, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
