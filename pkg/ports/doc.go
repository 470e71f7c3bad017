/*
Package ports defines the driven ports (interfaces) of the Turing machine library.

These interfaces decouple the servers and the CLI from the storage of program
sources, allowing the same registry to run on a directory, in memory or on Redis.

# Key Interfaces

  - ProgramStore: persists program sources by name.
*/
package ports
