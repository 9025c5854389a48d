package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"fbx-mesh-renderer/internal/fbx"
	"fbx-mesh-renderer/internal/geometry"
	"fbx-mesh-renderer/internal/mesh"

	"github.com/davecgh/go-spew/spew"
)

func main() {
	dump := flag.Bool("dump", false, "Dump the decoded record tree")
	node := flag.String("node", "", "With -dump, only dump this top-level record (e.g. Objects)")
	scale := flag.Float64("scale", 1, "Uniform scale applied to the bounding box")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-dump] [-node name] [-scale s] file.fbx")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	doc, err := fbx.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("FBX version %d, top-level: %s\n", doc.Version, strings.Join(doc.Keys(), ", "))

	if *dump {
		cfg := spew.NewDefaultConfig()
		cfg.DisableCapacities = true
		cfg.DisablePointerAddresses = true
		cfg.MaxDepth = 12
		if *node != "" {
			fmt.Print(cfg.Sdump(doc.Node(*node)))
		} else {
			for _, k := range doc.Keys() {
				fmt.Printf("== %s\n", k)
				fmt.Print(cfg.Sdump(doc.Node(k)))
			}
		}
		return
	}

	records, err := geometry.Extract(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	materials := geometry.Materials(doc, records)
	meshes := mesh.Build(records, materials, *scale)

	fmt.Printf("Geometries: %d\n", len(records))
	for i, rec := range records {
		fmt.Printf("  Geometry[%d] %d %q: verts=%d, tris=%d, normals=%v, uvs=%v, colors=%v\n",
			i, rec.ID, rec.Name, rec.VertexCount(), rec.TriangleCount(),
			rec.Normals != nil, rec.UVs != nil, rec.Colors != nil)
		if m := materials[i]; m.Name != "" {
			fmt.Printf("    Material: %q texture=%q\n", m.Name, m.Texture)
		}
		if lo, hi, ok := meshes[i].Bounds(); ok {
			fmt.Printf("    BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
			fmt.Printf("    Size: %.2f x %.2f x %.2f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
		}
	}
}
