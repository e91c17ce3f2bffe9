// Package npm looks packages up in an npm-compatible registry and installs
// them into throwaway workspaces with the npm CLI.
package npm
