// Package viz renders the simulation into the terminal: a braille-canvas
// 3D projection of particles and magnets, and a bubbletea live view that
// drives the engine from its tick loop.
package viz
