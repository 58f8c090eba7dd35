package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"
	"gopkg.in/gcfg.v1"

	galsim "github.com/sylvia-ymlin/N-Body-Problem-Simulation"
	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/io"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		simulate, generateIC string
		exampleConfig        string
		threads              int
		profFile             string
	)
	vars := map[string]*string{
		"Simulate":      &simulate,
		"GenerateIC":    &generateIC,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&simulate, "Simulate", "",
		"Configuration file for [Simulate] mode.",
	)
	flag.StringVar(
		&generateIC, "GenerateIC", "",
		"Configuration file for [GenerateIC] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are 'Simulate' "+
			"and 'GenerateIC'.",
	)
	flag.StringVar(
		&profFile, "ProfileFile", "",
		"File to write a CPU profile to.",
	)

	flag.Parse()

	// Figure out the mode and fail with a descriptive error if the user gave
	// incorrect flags.
	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Simulate":
		wrap := io.DefaultSimulateWrapper()
		err := gcfg.ReadFileInto(wrap, simulate)
		if err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Simulate

		if !con.ValidInput() {
			log.Fatal("Invalid/non-existent 'Input' value.")
		} else if !con.ValidOutput() {
			log.Fatal("Invalid/non-existent 'Output' value.")
		} else if !con.ValidSteps() {
			log.Fatal("Invalid/non-existent 'Steps' value.")
		} else if !con.ValidDt() {
			log.Fatal("Invalid/non-existent 'Dt' value.")
		} else if !con.ValidTheta() {
			log.Fatal("Invalid 'Theta' value.")
		} else if !con.ValidVersion() {
			log.Fatal("Invalid 'Version' value. Must be one of " +
				"[ Naive | BarnesHut | Arena | Morton | Clustered ].")
		} else if !con.ValidFrameEvery() {
			log.Fatal("Invalid 'FrameEvery' value.")
		}
		if !con.ValidThreads() {
			con.Threads = threads
		}

		fg := setupFiles(con.LogFile, profFile)
		defer fg.Close()

		simulateMain(con)

	case "GenerateIC":
		wrap := io.DefaultGenerateICWrapper()
		err := gcfg.ReadFileInto(wrap, generateIC)
		if err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.GenerateIC

		if !con.ValidOutput() {
			log.Fatal("Invalid/non-existent 'Output' value.")
		} else if !con.ValidParticles() {
			log.Fatal("Invalid/non-existent 'Particles' value.")
		} else if !con.ValidDistribution() {
			log.Fatal("Invalid 'Distribution' value. Must be " +
				"'Uniform' or 'Clustered'.")
		}

		generateICMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Simulate":
			fmt.Println(io.ExampleSimulateFile)
		case "GenerateIC":
			fmt.Println(io.ExampleGenerateICFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Simulate' and 'GenerateIC'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but galsim "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupFiles(logFile, profFile string) *FileGroup {
	fg := &FileGroup{}
	var err error

	if logFile != "" {
		fg.log, err = os.Create(logFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if profFile != "" {
		fg.prof, err = os.Create(profFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

func engineVersion(name string) galsim.Version {
	switch name {
	case "Naive":
		return galsim.V1Naive
	case "BarnesHut":
		return galsim.V2BarnesHut
	case "Arena":
		return galsim.V3Arena
	case "Morton":
		return galsim.V4Morton
	case "Clustered":
		return galsim.V5Clustered
	}
	panic("Impossible")
}

// simulateMain reads the initial particle state, runs the integration loop,
// and writes the final state plus any requested diagnostics.
func simulateMain(con *io.SimulateConfig) {
	p, err := readInput(con.Input)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Read %d particles from %s", p.Len(), con.Input)

	e := galsim.NewEngine(engineVersion(con.Version), galsim.Config{
		ThetaMax:  con.Theta,
		Threads:   con.Threads,
		KClusters: con.Clusters,
		UseArena:  true,
	})

	opt := galsim.RunOptions{
		Steps: con.Steps,
		Dt:    con.Dt,
		Euler: con.Euler,
	}

	if con.MovieFile != "" {
		if err := io.TruncateMovie(con.MovieFile); err != nil {
			log.Fatal(err.Error())
		}
		opt.FrameEvery = con.FrameEvery
		opt.Frame = func(p *galsim.Particles) error {
			return io.AppendFrame(con.MovieFile, p, io.GalEndianness)
		}
	}

	var ts, energies []float64
	if con.EnergyPlot != "" {
		// Piggyback on the frame cadence to sample total energy. The O(N^2)
		// energy sum is too expensive to run every step on large systems.
		frame := opt.Frame
		if opt.FrameEvery == 0 {
			opt.FrameEvery = con.FrameEvery
		}
		sampled := 0
		opt.Frame = func(p *galsim.Particles) error {
			ts = append(ts, float64(sampled*opt.FrameEvery)*con.Dt)
			energies = append(energies, galsim.TotalEnergy(p))
			sampled++
			if frame != nil {
				return frame(p)
			}
			return nil
		}
	}

	t0 := time.Now()
	if err := e.Run(p, opt); err != nil {
		log.Fatal(err.Error())
	}
	dt := time.Since(t0)
	log.Printf("Ran %d steps of %d particles in %v (%.3g s/step)",
		con.Steps, p.Len(), dt, dt.Seconds()/float64(con.Steps),
	)

	if err := io.WriteResult(con.Output, p, io.GalEndianness); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Wrote result to %s", con.Output)

	if con.EnergyPlot != "" {
		plotEnergy(con.EnergyPlot, ts, energies)
	}
}

// readInput dispatches on the file extension: .gal files are the fixed-size
// binary format, anything else is read as a whitespace table.
func readInput(path string) (*galsim.Particles, error) {
	if !strings.HasSuffix(path, ".gal") {
		return io.ReadParticleTable(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	recordSize := int64(6 * 8)
	if info.Size()%recordSize != 0 {
		return nil, fmt.Errorf(
			"%s is %d bytes, which is not a whole number of particle records",
			path, info.Size(),
		)
	}
	return io.ReadParticles(path, int(info.Size()/recordSize), io.GalEndianness)
}

func plotEnergy(fname string, ts, energies []float64) {
	if len(energies) == 0 {
		return
	}
	drift := make([]float64, len(energies))
	for i := range energies {
		drift[i] = energies[i] - energies[0]
	}

	plt.Reset()
	plt.Figure()
	plt.Plot(ts, drift, plt.LW(2))
	plt.XLabel("$t$")
	plt.YLabel("$E(t) - E(0)$")
	plt.Title("Total energy drift")
	plt.SaveFig(fname)
	plt.Execute()
}

func generateICMain(con *io.GenerateICConfig) {
	var p *galsim.Particles
	switch con.Distribution {
	case "Uniform":
		p = io.GenerateUniform(con.Particles, uint64(con.Seed))
	case "Clustered":
		p = io.GenerateClustered(con.Particles, uint64(con.Seed))
	default:
		panic("Impossible")
	}

	if err := io.WriteParticles(con.Output, p, io.GalEndianness); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Wrote %d particles to %s", p.Len(), con.Output)
}
