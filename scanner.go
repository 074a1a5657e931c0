// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ivpid

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/profile"
	"github.com/zintix-labs/ivpid/recorder"
	"github.com/zintix-labs/ivpid/stats"
)

const jobBuffer = 1024

// Scanner 把狀態空間切塊交給多個工作協程平行搜尋，並合併統計。
//
// 每個協程持有自己的 Searcher 與 ResultRecorder，彼此不共享可變狀態；
// 唯一共用的是呼叫者傳入的 sink，會以互斥鎖包裝。
type Scanner struct {
	Profile profile.Profile
	Mode    Mode
	Exact   bool
	Log     *slog.Logger
}

// ScanReport 一次掃描的結果數、用時與統計報表。
type ScanReport struct {
	Count int
	Used  time.Duration
	Stats *stats.Report
}

// NewScanner 驗證條件後建立 Scanner；log 為 nil 時不寫日誌。
func NewScanner(p profile.Profile, mode Mode, exact bool, log *slog.Logger) (*Scanner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if mode == nil {
		return nil, errs.NewWarn("mode is required")
	}
	if r, ok := mode.(Restricted); ok && len(r.Methods.Methods()) == 0 {
		return nil, errs.NewWarn("method set is empty")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{Profile: p, Mode: mode, Exact: exact, Log: log}, nil
}

// Scan 以 workers 個協程窮舉全部 2^31 個狀態。
func (sc *Scanner) Scan(ctx context.Context, workers int, sink dto.Sink, showpb bool) (*ScanReport, error) {
	return sc.ScanRange(ctx, 0, Blocks, workers, sink, showpb)
}

// ScanRange 只掃描 [from, to) 之間的塊。
//
// ctx 取消時不再派發新塊，已開始的塊會跑完；回傳的報表只包含已完成的部分，並附帶 Warn 等級錯誤。
// 工作協程 panic 會被轉為 Fatal 錯誤並中止其餘協程。
func (sc *Scanner) ScanRange(ctx context.Context, from, to uint32, workers int, sink dto.Sink, showpb bool) (*ScanReport, error) {
	if workers <= 0 {
		return nil, errs.NewWarn("workers must > 0")
	}
	to = min(to, Blocks)
	if from >= to {
		return nil, errs.Warnf("empty block range [%d, %d)", from, to)
	}

	shared := dto.Locked(sink)
	recs := make([]*recorder.ResultRecorder, workers)
	searchers := make([]*Searcher, workers)
	for i := range workers {
		rec, err := sc.newRecorder()
		if err != nil {
			return nil, err
		}
		recs[i] = rec
		searchers[i] = NewSearcher(sc.Profile, sc.Mode, sc.Exact, dto.Tee(rec, shared, sc.logSink(i)))
	}

	sc.Log.Info("scan start", "mode", sc.Mode.String(), "exact", sc.Exact, "shiny", sc.Profile.ShinyOnly(), "from", from, "to", to, "workers", workers)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	jobs := make(chan uint32, jobBuffer)
	errCh := make(chan error, workers)

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(int(to - from))
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := range workers {
		go scan(wctx, cancel, wg, searchers[i], jobs, bar, errCh)
	}

feed:
	for b := from; b < to; b++ {
		select {
		case jobs <- b:
		case <-wctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	close(errCh)

	var scanErr error
	for err := range errCh {
		if scanErr == nil {
			scanErr = err
		}
	}
	if scanErr == nil && ctx.Err() != nil {
		scanErr = errs.Wrap(ctx.Err(), "scan interrupted")
	}

	count := 0
	for i, s := range searchers {
		recs[i].AddStates(s.States())
		count += s.Count()
	}
	merged, err := recorder.MergeResultRecorder(recs)
	if err != nil {
		return nil, err
	}
	rep := &ScanReport{Count: count, Used: used, Stats: merged.Done()}
	sc.Log.Info("scan done", "results", count, "states", rep.Stats.Summary.States, "used", used)
	return rep, scanErr
}

func scan(ctx context.Context, cancel context.CancelFunc, wg *sync.WaitGroup, s *Searcher, jobs <-chan uint32, bar *pb.ProgressBar, errCh chan<- error) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			errCh <- errs.Fatalf("scan worker panic: %v", r)
			cancel()
		}
	}()
	for b := range jobs {
		if ctx.Err() != nil {
			continue
		}
		s.TestBlock(b)
		bar.Increment()
	}
}

// SearchPID 以已知 PID 反查 seed（單協程；65536 x Method 數個候選，連鎖異色為 ChainedCandidates 個）。
func (sc *Scanner) SearchPID(pid uint32, sink dto.Sink) (*ScanReport, error) {
	return sc.single(sink, func(s *Searcher) error {
		_, err := s.SearchPID(pid)
		return err
	})
}

// FromSeed 不套用任何條件，列出 state（抽出 PID 低半部之後的狀態）在每個允許的 Method 下產生的個體。
func (sc *Scanner) FromSeed(state uint32, sink dto.Sink) (*ScanReport, error) {
	return sc.single(sink, func(s *Searcher) error {
		s.GetFromSeed(state)
		return nil
	})
}

func (sc *Scanner) single(sink dto.Sink, run func(*Searcher) error) (*ScanReport, error) {
	rec, err := sc.newRecorder()
	if err != nil {
		return nil, err
	}
	s := NewSearcher(sc.Profile, sc.Mode, sc.Exact, dto.Tee(rec, sink, sc.logSink(0)))
	start := time.Now()
	if err := run(s); err != nil {
		return nil, err
	}
	rec.AddCandidates(s.States())
	return &ScanReport{Count: s.Count(), Used: time.Since(start), Stats: rec.Done()}, nil
}

func (sc *Scanner) newRecorder() (*recorder.ResultRecorder, error) {
	return recorder.NewResultRecorder(sc.Mode.String(), sc.Exact, sc.perState(), sc.Profile.IDxorSID)
}

// 每個狀態實際嘗試的產生方式數，供命中率的分母使用。
func (sc *Scanner) perState() int {
	if r, ok := sc.Mode.(Restricted); ok {
		return len(r.Methods.Methods())
	}
	return 1
}

func (sc *Scanner) logSink(worker int) dto.Sink {
	if !sc.Log.Enabled(context.Background(), slog.LevelDebug) {
		return nil
	}
	log := sc.Log.With("worker", worker)
	return dto.SinkFunc(func(r dto.Result) {
		log.Debug("result", "seed", fmt.Sprintf("%08X", r.Seed), "method", r.Method.String(), "pid", fmt.Sprintf("%08X", r.PID))
	})
}
