package io

const (
	ExampleSimulateFile = `[Simulate]

#######################
# Required Parameters #
#######################

# Binary particle file that the simulation starts from. Each particle is six
# little-endian float64s: x, y, mass, vx, vy, brightness.
Input = path/to/input.gal
# File which the final particle state will be written to, as five float64s
# per particle: x, y, mass, vx, vy.
Output = path/to/result.gal

# Number of timesteps to run.
Steps = 200

# Size of each timestep.
Dt = 1e-5

# Opening angle for the tree approximation. Nodes whose width-to-distance
# ratio is below this value are treated as single bodies. Theta = 0 disables
# the approximation entirely and is only useful for accuracy testing.
Theta = 0.5

#######################
# Optional Parameters #
#######################

# Force evaluation strategy. Must be one of:
# [ Naive | BarnesHut | Arena | Morton | Clustered ]
# Version = Clustered

# Number of worker goroutines used by the Clustered version. Defaults to the
# number of CPUs.
# Threads = 8

# Number of k-means clusters used to partition work in the Clustered version.
# Clusters = 0 means partition by Morton order instead.
# Clusters = 16

# Use the symplectic Euler integrator instead of velocity Verlet.
# Euler = false

# If set, a movie file recording x, y and mass for every particle is
# appended to every FrameEvery steps.
# MovieFile = path/to/movie.gal
# FrameEvery = 10

# If set, total energy is sampled during the run and a drift plot is written
# here as a python script.
# EnergyPlot = path/to/energy.py

# LogFile = log.out`
	ExampleGenerateICFile = `[GenerateIC]

#######################
# Required Parameters #
#######################

# File the generated particles will be written to.
Output = path/to/ic.gal

# Number of particles to generate.
Particles = 1000

#######################
# Optional Parameters #
#######################

# Must be "Uniform" or "Clustered". Uniform scatters particles evenly over
# the unit square. Clustered places 80% of them in a gaussian blob at the
# center, which exercises the deep levels of the tree.
# Distribution = Uniform

# Seed for the random number generator.
# Seed = 42`
)

type SimulateConfig struct {
	// Required
	Input, Output string
	Steps         int
	Dt, Theta     float64

	// Optional
	Version    string
	Threads    int
	Clusters   int
	Euler      bool
	MovieFile  string
	FrameEvery int
	EnergyPlot string
	LogFile    string
}

type SimulateWrapper struct {
	Simulate SimulateConfig
}

func DefaultSimulateWrapper() *SimulateWrapper {
	con := SimulateConfig{}
	con.Version = "Clustered"
	con.FrameEvery = 10
	return &SimulateWrapper{con}
}

func (con *SimulateConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SimulateConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SimulateConfig) ValidSteps() bool {
	return con.Steps > 0
}
func (con *SimulateConfig) ValidDt() bool {
	return con.Dt > 0
}
func (con *SimulateConfig) ValidTheta() bool {
	return con.Theta >= 0
}
func (con *SimulateConfig) ValidVersion() bool {
	switch con.Version {
	case "Naive", "BarnesHut", "Arena", "Morton", "Clustered":
		return true
	}
	return false
}
func (con *SimulateConfig) ValidThreads() bool {
	return con.Threads > 0
}
func (con *SimulateConfig) ValidFrameEvery() bool {
	return con.FrameEvery > 0
}
func (con *SimulateConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

type GenerateICConfig struct {
	// Required
	Output    string
	Particles int

	// Optional
	Distribution string
	Seed         int
}

type GenerateICWrapper struct {
	GenerateIC GenerateICConfig
}

func DefaultGenerateICWrapper() *GenerateICWrapper {
	con := GenerateICConfig{}
	con.Distribution = "Uniform"
	con.Seed = 42
	return &GenerateICWrapper{con}
}

func (con *GenerateICConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *GenerateICConfig) ValidParticles() bool {
	return con.Particles > 0
}
func (con *GenerateICConfig) ValidDistribution() bool {
	return con.Distribution == "Uniform" || con.Distribution == "Clustered"
}
