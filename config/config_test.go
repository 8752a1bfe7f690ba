/*
 * config_test.go, part of rnamd.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "amber", c.Engine)
	assert.Equal(t, 15.0, c.Padding)
	assert.Equal(t, 0.15, c.Molarity)
	assert.Equal(t, 300.0, c.Temperature)
	assert.Equal(t, 1.0, c.Pressure)
	assert.Equal(t, 100.0, c.ProductionNs)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	text := `engine: openmm
ligand_resname: LIG
ligand_charge: -1
padding: 12.5
production_ns: 50
gpu: false
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openmm", c.Engine)
	assert.Equal(t, "LIG", c.LigandResname)
	assert.Equal(t, -1, c.LigandCharge)
	assert.Equal(t, 12.5, c.Padding)
	assert.Equal(t, 50.0, c.ProductionNs)
	assert.False(t, c.GPU)
	//untouched fields keep their defaults
	assert.Equal(t, 0.15, c.Molarity)
	assert.Equal(t, 300.0, c.Temperature)
	//absent means "estimate from the structure"
	assert.Nil(t, c.RNACharge)
}

func TestRNAChargeOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rna_charge: -30\n"), 0644))
	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.RNACharge)
	assert.Equal(t, -30, *c.RNACharge)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: amber\ntemperature: 310\n"), 0644))
	t.Setenv("RNAMD_ENGINE", "gromacs")
	t.Setenv("RNAMD_MOLARITY", "0.1")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gromacs", c.Engine)
	assert.Equal(t, 0.1, c.Molarity)
	//values only in the file survive
	assert.Equal(t, 310.0, c.Temperature)
}

func TestValidation(t *testing.T) {
	bad := func(mutate func(*Config)) error {
		c := Default()
		mutate(c)
		return c.Validate()
	}
	assert.Error(t, bad(func(c *Config) { c.Engine = "lammps" }))
	assert.Error(t, bad(func(c *Config) { c.Padding = 0 }))
	assert.Error(t, bad(func(c *Config) { c.Molarity = -0.1 }))
	assert.Error(t, bad(func(c *Config) { c.Temperature = -5 }))
	assert.Error(t, bad(func(c *Config) { c.ProductionNs = 0 }))
	assert.Error(t, bad(func(c *Config) { c.ReportEvery = 0 }))
	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
