package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CPU reads total CPU utilization in percent since the previous read.
type CPU struct{}

func (CPU) Name() string { return "cpu" }

func (CPU) Read(ctx context.Context) (float64, error) {
	vals, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("read cpu percent: %w", err)
	}
	if len(vals) == 0 {
		return 0, errors.New("read cpu percent: no data")
	}
	return vals[0], nil
}

// Memory reads used physical memory in percent.
type Memory struct{}

func (Memory) Name() string { return "mem" }

func (Memory) Read(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("read memory: %w", err)
	}
	return vm.UsedPercent, nil
}

// Battery reads the combined charge of all batteries in percent.
type Battery struct{}

func (Battery) Name() string { return "battery" }

func (Battery) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	bats, err := battery.GetAll()
	if len(bats) == 0 {
		if err == nil {
			err = errors.New("no batteries")
		}
		return 0, fmt.Errorf("read battery: %w", err)
	}
	return batteryPercent(bats)
}

// batteryPercent weighs each battery by its full capacity. Batteries that
// failed to report are skipped.
func batteryPercent(bats []*battery.Battery) (float64, error) {
	var current, full float64
	for _, b := range bats {
		if b == nil || b.Full <= 0 {
			continue
		}
		current += b.Current
		full += b.Full
	}
	if full == 0 {
		return 0, errors.New("read battery: no capacity reported")
	}
	return 100 * current / full, nil
}
