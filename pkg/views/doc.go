// Package views holds the state of the fundspark screens independent of how
// they are drawn. The web handlers and the terminal UI both drive these types;
// the only I/O happens through the small backend interfaces they accept.
package views
