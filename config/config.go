/*
 * config.go, part of rnamd.
 *
 * Copyright 2026 The rnamd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config holds the run parameters of a simulation campaign,
//read from a YAML file with RNAMD_* environment variables taking
//precedence.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//Config is the full parameter set of a run.
type Config struct {
	//Engine selects the MD backend: amber, gromacs or openmm.
	Engine string `yaml:"engine" env:"ENGINE"`
	//Command overrides the engine binary; empty uses the default.
	Command string `yaml:"command" env:"COMMAND"`
	//WorkDir is where all generated files land.
	WorkDir string `yaml:"workdir" env:"WORKDIR"`

	//LigandResname is the residue name of the small molecule, as it
	//appears in the input PDBs.
	LigandResname string `yaml:"ligand_resname" env:"LIGAND_RESNAME"`
	LigandCharge  int    `yaml:"ligand_charge" env:"LIGAND_CHARGE"`
	//RNACharge overrides the formal charge estimated from the RNA's
	//backbone phosphates. Nil means estimate.
	RNACharge *int    `yaml:"rna_charge" env:"RNA_CHARGE"`
	Padding   float64 `yaml:"padding" env:"PADDING"`   //Å of water around the solute
	Molarity  float64 `yaml:"molarity" env:"MOLARITY"` //mol/L NaCl

	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"` //K
	Pressure    float64 `yaml:"pressure" env:"PRESSURE"`       //atm

	MinSteps   int `yaml:"min_steps" env:"MIN_STEPS"`     //minimization cycles
	EquilSteps int `yaml:"equil_steps" env:"EQUIL_STEPS"` //steps per dynamics stage

	ProductionNs float64 `yaml:"production_ns" env:"PRODUCTION_NS"`
	ReportEvery  int     `yaml:"report_every" env:"REPORT_EVERY"` //steps between trajectory frames
	GPU          bool    `yaml:"gpu" env:"GPU"`
}

//Default returns the configuration used when a field is not given:
//AMBER at 300 K and 1 atm, 15 Å of TIP3P water, 0.15 M NaCl, a 100 ns
//production.
func Default() *Config {
	return &Config{
		Engine:       "amber",
		WorkDir:      ".",
		Padding:      15.0,
		Molarity:     0.15,
		Temperature:  300.0,
		Pressure:     1.0,
		MinSteps:     5000,
		EquilSteps:   250000, //500 ps at 2 fs
		ProductionNs: 100.0,
		ReportEvery:  5000, //10 ps at 2 fs
		GPU:          true,
	}
}

//Load reads the configuration from the YAML file at path, then applies
//any RNAMD_* environment overrides. An empty path skips the file and
//uses the defaults plus the environment.
func Load(path string) (*Config, error) {
	C := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, C); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(C, env.Options{Prefix: "RNAMD_"}); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := C.Validate(); err != nil {
		return nil, err
	}
	return C, nil
}

//Validate checks the configuration for values that would make a run
//fail late or silently do the wrong thing.
func (C *Config) Validate() error {
	switch C.Engine {
	case "amber", "gromacs", "openmm":
	default:
		return fmt.Errorf("config: unknown engine %q", C.Engine)
	}
	if C.Padding <= 0 {
		return fmt.Errorf("config: padding must be positive, got %g", C.Padding)
	}
	if C.Molarity < 0 {
		return fmt.Errorf("config: negative molarity %g", C.Molarity)
	}
	if C.Temperature <= 0 {
		return fmt.Errorf("config: temperature must be positive, got %g", C.Temperature)
	}
	if C.ProductionNs <= 0 {
		return fmt.Errorf("config: production length must be positive, got %g ns", C.ProductionNs)
	}
	if C.MinSteps <= 0 || C.EquilSteps <= 0 {
		return fmt.Errorf("config: step counts must be positive")
	}
	if C.ReportEvery <= 0 {
		return fmt.Errorf("config: report interval must be positive")
	}
	return nil
}
