package pipeline

import (
	"errors"
	"testing"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/noise"
)

func TestCallbacksRunOnlyInDrain(t *testing.T) {
	p := New(4)
	defer p.Close()

	delivered := 0
	for i := 0; i < 32; i++ {
		Submit(p, "square", func() (int, error) { return i * i, nil }, func(int, error) { delivered++ })
	}
	p.Wait()
	if delivered != 0 {
		t.Fatalf("%d callbacks ran before Drain", delivered)
	}
	if s := p.Stats(); s.Completed != 32 || s.Queued != 0 || s.Running != 0 {
		t.Fatalf("unexpected stats after Wait: %+v", s)
	}
	if n := p.Drain(); n != 32 || delivered != 32 {
		t.Fatalf("Drain ran %d callbacks, delivered %d, want 32", n, delivered)
	}
	if n := p.Drain(); n != 0 {
		t.Fatalf("second Drain ran %d callbacks, want 0", n)
	}
}

func TestSingleWorkerPreservesOrder(t *testing.T) {
	p := New(1)
	defer p.Close()

	var got []int
	for i := 0; i < 10; i++ {
		Submit(p, "ordered", func() (int, error) { return i, nil }, func(v int, err error) {
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			got = append(got, v)
		})
	}
	p.Wait()
	p.Drain()
	for i, v := range got {
		if v != i {
			t.Fatalf("completion order %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("got %d results, want 10", len(got))
	}
}

func TestFailureIsDeliveredNotDropped(t *testing.T) {
	p := New(2)
	defer p.Close()

	cause := errors.New("boom")
	var errs []error
	var results []*int
	collect := func(v *int, err error) {
		results = append(results, v)
		errs = append(errs, err)
	}
	Submit(p, "fails", func() (*int, error) { v := 1; return &v, cause }, collect)
	Submit(p, "panics", func() (*int, error) { panic("kaboom") }, collect)
	p.Wait()
	p.Drain()

	if len(errs) != 2 {
		t.Fatalf("got %d completions, want 2", len(errs))
	}
	for i, err := range errs {
		if !errors.Is(err, ErrGenerationFailed) {
			t.Errorf("completion %d: %v does not wrap ErrGenerationFailed", i, err)
		}
		if results[i] != nil {
			t.Errorf("completion %d: failed task delivered a result", i)
		}
	}
	found := false
	for _, err := range errs {
		if errors.Is(err, cause) {
			found = true
		}
	}
	if !found {
		t.Errorf("underlying error was not wrapped: %v", errs)
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := New(1)
	p.Close()
	p.Close()

	var got error
	Submit(p, "late", func() (int, error) { return 1, nil }, func(_ int, err error) { got = err })
	if n := p.Drain(); n != 1 {
		t.Fatalf("Drain ran %d callbacks, want 1", n)
	}
	if !errors.Is(got, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", got)
	}
}

func TestCallbackMaySubmitMoreWork(t *testing.T) {
	p := New(2)
	defer p.Close()

	final := 0
	Submit(p, "first", func() (int, error) { return 2, nil }, func(v int, _ error) {
		Submit(p, "second", func() (int, error) { return v * 10, nil }, func(w int, _ error) { final = w })
	})
	p.Wait()
	p.Drain()
	if final != 0 {
		t.Fatalf("follow-up callback ran in the same Drain")
	}
	p.Wait()
	p.Drain()
	if final != 20 {
		t.Fatalf("final = %d, want 20", final)
	}
}

func TestRequestHeightfieldAndMesh(t *testing.T) {
	p := New(2)
	defer p.Close()

	gen := heightfield.NewGenerator(heightfield.Options{
		Seed:       1,
		Noise:      noise.Params{Scale: 50, Octaves: 4, Persistence: 0.5, Lacunarity: 2, Normalize: noise.Global},
		Multiplier: 10,
	})

	var hf *heightfield.Heightfield
	p.RequestHeightfield(HeightfieldRequest{Coord: heightfield.ChunkCoord{X: 1, Y: 1}, Generator: gen}, func(h *heightfield.Heightfield, err error) {
		if err != nil {
			t.Fatalf("heightfield: %v", err)
		}
		hf = h
	})
	p.Wait()
	p.Drain()
	if hf == nil || hf.Coord != (heightfield.ChunkCoord{X: 1, Y: 1}) {
		t.Fatalf("unexpected heightfield %+v", hf)
	}

	var mesh *meshing.Mesh
	p.RequestMesh(MeshRequest{Heightfield: hf, LOD: 2}, func(m *meshing.Mesh, err error) {
		if err != nil {
			t.Fatalf("mesh: %v", err)
		}
		mesh = m
	})
	p.Wait()
	p.Drain()
	if mesh == nil || mesh.LOD != 2 || mesh.VerticesPerLine != 61 {
		t.Fatalf("unexpected mesh %+v", mesh)
	}
}

func TestRequestWithoutGeneratorFails(t *testing.T) {
	p := New(1)
	defer p.Close()

	var got error
	p.RequestHeightfield(HeightfieldRequest{}, func(_ *heightfield.Heightfield, err error) { got = err })
	p.RequestMesh(MeshRequest{LOD: 1}, func(m *meshing.Mesh, err error) {
		if err == nil || m != nil {
			t.Errorf("mesh without heightfield: got %v, %v", m, err)
		}
	})
	p.Wait()
	p.Drain()
	if !errors.Is(got, ErrGenerationFailed) {
		t.Fatalf("got %v, want ErrGenerationFailed", got)
	}
}
