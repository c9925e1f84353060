// Package hcl provides the concrete HCL implementation of config.Loader. It
// is responsible for file discovery, parsing, HCL-to-model translation and
// cty-to-Go value binding, and it writes fit records back out as HCL so a
// fit can be replayed.
package hcl
