// routemark E2E Load Benchmark
//
// This benchmark is designed to answer the questions we actually care about in production:
// - What is the p50/p95/p99 latency of full-shell and fragment requests under concurrent load?
// - How much allocation + GC work does that load generate?
//
// It runs the real routemark app over a TCP listener and drives N concurrent HTTP clients
// that alternate between shell requests (GET /doc/<n>) and fragment requests
// (GET /doc/<n>?fragment=1), reading each response to completion.
//
// Documents render once and are cached by the loader, so after warmup this measures the
// steady-state serving path: route matching, cache lookup, shell templating, and transfer.
//
// Run:
//   cd benchmark/e2e_load
//   go run . -clients=200 -duration=30s -rps=5 -docs=100
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing/fstest"
	"time"

	"github.com/routemark/routemark"
)

type sampleKind int

const (
	kindShell sampleKind = iota
	kindFragment
)

type sample struct {
	kind sampleKind
	rtt  time.Duration
}

func main() {
	var (
		clients  = flag.Int("clients", 100, "number of concurrent HTTP clients")
		duration = flag.Duration("duration", 15*time.Second, "how long to run the load test")
		rps      = flag.Float64("rps", 2, "target requests/sec per client (best-effort, response-gated)")
		docs     = flag.Int("docs", 50, "number of generated documents (affects cache spread)")
		docBytes = flag.Int("doc-bytes", 2048, "approximate markdown bytes per document (affects response size)")
	)
	flag.Parse()

	if *clients <= 0 {
		log.Fatal("-clients must be > 0")
	}
	if *duration <= 0 {
		log.Fatal("-duration must be > 0")
	}
	if *rps <= 0 {
		log.Fatal("-rps must be > 0")
	}
	if *docs <= 0 {
		log.Fatal("-docs must be > 0")
	}
	if *docBytes < 0 {
		log.Fatal("-doc-bytes must be >= 0")
	}

	// Reduce incidental variability a bit.
	debug.SetGCPercent(100)

	app := routemark.New(routemark.Config{
		Title: "Benchmark",
		Rules: []routemark.Rule{
			{Pattern: "/", Doc: "/README.md"},
			{Pattern: "/doc/:n", Doc: "/doc/:n.md"},
		},
		Source: routemark.NewFSSource(genSite(*docs, *docBytes)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	httpServer := &http.Server{Handler: app}
	go func() {
		_ = httpServer.Serve(ln)
	}()
	defer func() {
		_ = httpServer.Shutdown(context.Background())
	}()

	baseURL := "http://" + ln.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	samplesCh := make(chan sample, 1024)
	var shellSamples, fragmentSamples []time.Duration
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for s := range samplesCh {
			if s.kind == kindShell {
				shellSamples = append(shellSamples, s.rtt)
			} else {
				fragmentSamples = append(fragmentSamples, s.rtt)
			}
		}
	}()

	var (
		totalRequests atomic.Uint64
		totalErrors   atomic.Uint64
	)

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	beforeMetrics := readRuntimeMetrics()

	var wg sync.WaitGroup
	wg.Add(*clients)
	for i := 0; i < *clients; i++ {
		clientID := i
		go func() {
			defer wg.Done()
			if err := runClient(ctx, baseURL, clientID, *rps, *docs, samplesCh, &totalRequests, &totalErrors); err != nil {
				totalErrors.Add(1)
			}
		}()
	}

	wg.Wait()
	close(samplesCh)
	<-collectorDone

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	afterMetrics := readRuntimeMetrics()

	sort.Slice(shellSamples, func(i, j int) bool { return shellSamples[i] < shellSamples[j] })
	sort.Slice(fragmentSamples, func(i, j int) bool { return fragmentSamples[i] < fragmentSamples[j] })

	total := totalRequests.Load()
	errs := totalErrors.Load()
	runSeconds := math.Max(0.001, (*duration).Seconds())

	fmt.Println("=== routemark E2E Load Benchmark ===")
	fmt.Printf("Clients: %d\n", *clients)
	fmt.Printf("Duration: %s\n", (*duration).String())
	fmt.Printf("Target per-client rate: %.2f req/s\n", *rps)
	fmt.Printf("Documents: %d\n", *docs)
	fmt.Printf("Document bytes: %d\n", *docBytes)
	fmt.Printf("Total requests: %d\n", total)
	fmt.Printf("Errors: %d\n", errs)
	fmt.Printf("Throughput: %.1f req/s\n", float64(total)/runSeconds)
	fmt.Println()

	printLatencies("Shell (full page)", shellSamples)
	printLatencies("Fragment (content only)", fragmentSamples)

	fmt.Println("Go runtime / GC (process-wide):")
	fmt.Printf("  alloc:     %.2f MB\n", float64(after.TotalAlloc-before.TotalAlloc)/(1024*1024))
	fmt.Printf("  heap_live: %.2f MB\n", float64(after.HeapAlloc)/(1024*1024))
	fmt.Printf("  num_gc:    %d\n", after.NumGC-before.NumGC)
	fmt.Printf("  gc_pause:  %s (total)\n", time.Duration(after.PauseTotalNs-before.PauseTotalNs))
	fmt.Printf("  gc_pause:  %s (avg)\n", avgPause(after, before))
	fmt.Printf("  gc_cpu:    %.2f%%\n", 100*cpuFraction(afterMetrics, beforeMetrics))
	fmt.Printf("  allocs:    %.2f M objects\n", float64(afterMetrics.heapAllocsObjects-beforeMetrics.heapAllocsObjects)/1_000_000)
}

func printLatencies(label string, sorted []time.Duration) {
	if len(sorted) == 0 {
		fmt.Printf("%s: no samples recorded.\n\n", label)
		return
	}
	fmt.Printf("%s latency (request write → body fully read):\n", label)
	fmt.Printf("  min: %s\n", sorted[0])
	fmt.Printf("  p50: %s\n", percentile(sorted, 0.50))
	fmt.Printf("  p95: %s\n", percentile(sorted, 0.95))
	fmt.Printf("  p99: %s\n", percentile(sorted, 0.99))
	fmt.Printf("  max: %s\n", sorted[len(sorted)-1])
	fmt.Println()
}

func avgPause(after, before runtime.MemStats) time.Duration {
	gcCount := after.NumGC - before.NumGC
	if gcCount == 0 {
		return 0
	}
	return time.Duration((after.PauseTotalNs - before.PauseTotalNs) / uint64(gcCount))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

type runtimeMetricsSnapshot struct {
	cpuTotalSeconds float64
	cpuGCSeconds    float64

	heapAllocsBytes   uint64
	heapAllocsObjects uint64
}

func readRuntimeMetrics() runtimeMetricsSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:bytes"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)

	var out runtimeMetricsSnapshot
	for _, s := range samples {
		switch s.Name {
		case "/cpu/classes/total:cpu-seconds":
			out.cpuTotalSeconds = s.Value.Float64()
		case "/cpu/classes/gc/total:cpu-seconds":
			out.cpuGCSeconds = s.Value.Float64()
		case "/gc/heap/allocs:bytes":
			out.heapAllocsBytes = s.Value.Uint64()
		case "/gc/heap/allocs:objects":
			out.heapAllocsObjects = s.Value.Uint64()
		}
	}
	return out
}

func cpuFraction(after, before runtimeMetricsSnapshot) float64 {
	total := after.cpuTotalSeconds - before.cpuTotalSeconds
	if total <= 0 {
		return 0
	}
	gc := after.cpuGCSeconds - before.cpuGCSeconds
	if gc < 0 {
		return 0
	}
	return gc / total
}

func runClient(
	ctx context.Context,
	baseURL string,
	clientID int,
	rps float64,
	docs int,
	samples chan<- sample,
	totalRequests *atomic.Uint64,
	totalErrors *atomic.Uint64,
) error {
	// One transport per client keeps a dedicated keep-alive connection,
	// matching how a browser tab talks to the server.
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        2,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	defer client.CloseIdleConnections()

	period := time.Duration(float64(time.Second) / rps)
	var seq uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		seq++
		doc := (uint64(clientID) + seq) % uint64(docs)
		kind := kindShell
		url := fmt.Sprintf("%s/doc/%d", baseURL, doc)
		if seq%2 == 1 {
			kind = kindFragment
			url += "?fragment=1"
		}

		start := time.Now()
		if err := fetch(ctx, client, url); err != nil {
			totalErrors.Add(1)
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}
		rtt := time.Since(start)

		totalRequests.Add(1)
		samples <- sample{kind: kind, rtt: rtt}

		// Best-effort pacing. We intentionally gate on response to measure real queueing/tail behavior.
		elapsed := time.Since(start)
		if sleep := period - elapsed; sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// fetch performs one GET and reads the body to completion, so the
// sample covers the full transfer rather than just the first byte.
func fetch(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d for %s", resp.StatusCode, url)
	}
	return nil
}

// genSite builds an in-memory content tree: a README plus n documents
// of roughly docBytes markdown each, with headings and lists so the
// renderer does meaningful work.
func genSite(n, docBytes int) fstest.MapFS {
	fsys := fstest.MapFS{
		"README.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Benchmark\n---\n\n# Benchmark site\n"),
		},
	}
	for i := 0; i < n; i++ {
		fsys[fmt.Sprintf("doc/%d.md", i)] = &fstest.MapFile{Data: genDoc(i, docBytes)}
	}
	return fsys
}

func genDoc(i, docBytes int) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: Document %d\n---\n\n# Document %d\n\n", i, i)

	para := "The quick brown fox jumps over the lazy dog. "
	section := 0
	for b.Len() < docBytes {
		section++
		fmt.Fprintf(&b, "## Section %d\n\n", section)
		for j := 0; j < 3 && b.Len() < docBytes; j++ {
			b.WriteString(para)
		}
		b.WriteString("\n\n- first point\n- second point\n- third point\n\n")
	}
	return []byte(b.String())
}
