// Command universim grows a Menger sponge from a seed cube and exports the
// result as STL, PNG or a JSON summary.
package main

func main() {
	Execute()
}
