// Package freight provides an interpreter for Freight, a dataflow
// language whose programs are laid out on a 2D text grid.
//
// The core code is in package 'core', the standard station catalogue is
// in package 'stations', and some command-line tools are in 'cmd'.
//
// See https://github.com/freightlang/freight/blob/master/README.md for more.
package freight
