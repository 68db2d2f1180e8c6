// Command mctaskdemo exercises the kernel the way the firmware's own
// hello_world sample does: create a handful of threads, let the round-robin
// scheduler time-slice them, join the ones that finish, and print the
// diagnostic counters before exiting.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/pryga/mctask"
	"github.com/pryga/mctask/internal/logging"
)

func main() {
	var (
		threads    = flag.Int("threads", 3, "number of worker threads to create")
		iterations = flag.Int("iterations", 200, "loop iterations per worker thread")
		verbose    = flag.Bool("v", false, "verbose logging")
		cpu        = flag.Int("cpu", -1, "pin the main OS thread to a single CPU (-1 disables pinning)")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	// Lock the main goroutine to its OS thread and pin that thread to one
	// CPU (SchedSetaffinity with pid 0 applies to the calling thread only):
	// there is exactly one simulated core here, so letting it migrate
	// mid-slice would make tick timing less representative of the real target.
	if *cpu >= 0 {
		runtime.LockOSThread()
		var mask unix.CPUSet
		mask.Set(*cpu)
		if err := unix.SchedSetaffinity(0, &mask); err != nil {
			logger.Warn("failed to set CPU affinity", "cpu", *cpu, "error", err)
		} else {
			logger.Info("pinned to CPU", "cpu", *cpu)
		}
	}

	k := mctask.New()
	defer k.Stop()

	fmt.Printf("mctaskdemo: starting kernel with %d worker thread(s)\n", *threads)

	counters := make([]atomic.Uint64, *threads)
	handles := make([]*mctask.Thread, *threads)

	for i := 0; i < *threads; i++ {
		i := i
		h, err := k.Create(func(ctx *mctask.ThreadContext) {
			for j := 0; j < *iterations; j++ {
				counters[i].Add(1)
				ctx.Checkpoint()
			}
		}, 0)
		if err != nil {
			logger.Error("thread_create failed", "index", i, "error", err)
			os.Exit(1)
		}
		handles[i] = h
	}

	main := k.MainContext()
	for i, h := range handles {
		if err := main.Join(h); err != nil {
			logger.Error("thread_join failed", "index", i, "error", err)
			os.Exit(1)
		}
	}

	fmt.Println("mctaskdemo: all worker threads joined")
	for i := range counters {
		fmt.Printf("  thread %d: %d iterations\n", handles[i].ID(), counters[i].Load())
	}
	fmt.Println(k.Stats())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-time.After(10 * time.Millisecond):
	}
}
