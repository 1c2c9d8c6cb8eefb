// Command bench drives the lock-free queue through the same four
// concurrency shapes the core test suite checks for correctness (spsc,
// mpsc, spmc, mpmc), measures throughput for each, and renders the results
// as an HTML bar chart. It is a consumer of the public Queue[T] contract
// only; it never reaches into the queue's internals.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/gsingh-ds/lfqueue"
)

func main() {
	var (
		itemsPerProducer = flag.Int("items", 200_000, "items pushed per producer goroutine")
		concurrency      = flag.Int("concurrency", 4, "producer/consumer goroutine count for the mp*/mc shapes")
		nodeCapacity     = flag.Int("node-capacity", 7, "queue node capacity (K)")
		output           = flag.String("out", "bench.html", "path to write the rendered chart to")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bench: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger, *itemsPerProducer, *concurrency, *nodeCapacity, *output); err != nil {
		logger.Error("bench run failed", zap.Error(err))
		os.Exit(1)
	}
}

type shapeResult struct {
	name            string
	throughputPerMs float64
}

func run(logger *zap.Logger, itemsPerProducer, concurrency, nodeCapacity int, output string) error {
	if itemsPerProducer <= 0 || concurrency <= 0 || nodeCapacity < 2 {
		return errors.New("bench: items, concurrency must be positive and node-capacity must be >= 2")
	}

	shapes := []struct {
		name string
		run  func() time.Duration
	}{
		{"spsc", func() time.Duration { return runSPSC(itemsPerProducer, nodeCapacity) }},
		{"mpsc", func() time.Duration { return runMPSC(itemsPerProducer, concurrency, nodeCapacity) }},
		{"spmc", func() time.Duration { return runSPMC(itemsPerProducer, concurrency, nodeCapacity) }},
		{"mpmc", func() time.Duration { return runMPMC(itemsPerProducer, concurrency, nodeCapacity) }},
	}

	results := make([]shapeResult, 0, len(shapes))
	for _, shape := range shapes {
		logger.Info("running shape", zap.String("shape", shape.name))
		elapsed := shape.run()
		total := itemsPerProducer * concurrency
		if shape.name == "spsc" {
			total = itemsPerProducer
		}
		throughputPerMs := float64(total) / float64(elapsed.Milliseconds()+1)
		logger.Info("shape complete",
			zap.String("shape", shape.name),
			zap.Duration("elapsed", elapsed),
			zap.Float64("items_per_ms", throughputPerMs),
		)
		results = append(results, shapeResult{name: shape.name, throughputPerMs: throughputPerMs})
	}

	if err := renderChart(results, output); err != nil {
		return fmt.Errorf("bench: rendering chart: %w", err)
	}
	logger.Info("chart written", zap.String("path", output))
	return nil
}

func runSPSC(items, nodeCapacity int) time.Duration {
	q := lfqueue.New[int](lfqueue.WithNodeCapacity(nodeCapacity))
	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < items; i++ {
			q.Push(i)
		}
	}()
	for popped := 0; popped < items; {
		if _, ok := q.Pop(); ok {
			popped++
		}
	}
	wg.Wait()
	return time.Since(start)
}

func runMPSC(itemsPerProducer, producers, nodeCapacity int) time.Duration {
	q := lfqueue.New[int](lfqueue.WithNodeCapacity(nodeCapacity))
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				q.Push(i)
			}
		}()
	}

	total := itemsPerProducer * producers
	for popped := 0; popped < total; {
		if _, ok := q.Pop(); ok {
			popped++
		}
	}
	wg.Wait()
	return time.Since(start)
}

func runSPMC(itemsPerConsumer, consumers, nodeCapacity int) time.Duration {
	q := lfqueue.New[int](lfqueue.WithNodeCapacity(nodeCapacity))
	total := itemsPerConsumer * consumers

	start := time.Now()
	go func() {
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer wg.Done()
			popped := 0
			for popped < itemsPerConsumer {
				if _, ok := q.Pop(); ok {
					popped++
				}
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}

func runMPMC(itemsPerGoroutine, concurrency, nodeCapacity int) time.Duration {
	q := lfqueue.New[int](lfqueue.WithNodeCapacity(nodeCapacity))

	start := time.Now()
	var producerWG sync.WaitGroup
	producerWG.Add(concurrency)
	for p := 0; p < concurrency; p++ {
		go func() {
			defer producerWG.Done()
			for i := 0; i < itemsPerGoroutine; i++ {
				q.Push(i)
			}
		}()
	}

	var consumerWG sync.WaitGroup
	consumerWG.Add(concurrency)
	for c := 0; c < concurrency; c++ {
		go func() {
			defer consumerWG.Done()
			popped := 0
			for popped < itemsPerGoroutine {
				if _, ok := q.Pop(); ok {
					popped++
				}
			}
		}()
	}

	producerWG.Wait()
	consumerWG.Wait()
	return time.Since(start)
}

func renderChart(results []shapeResult, output string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "lfqueue throughput",
			Subtitle: "items popped per millisecond, by concurrency shape",
		}),
	)

	names := make([]string, 0, len(results))
	values := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		names = append(names, r.name)
		values = append(values, opts.BarData{Value: r.throughputPerMs})
	}

	bar.SetXAxis(names).AddSeries("items/ms", values)

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	return bar.Render(f)
}
