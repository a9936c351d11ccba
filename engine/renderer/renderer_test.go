package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/trace"
	"github.com/Carmen-Shannon/oxy-trace/engine/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend   *trace.Backend
	target    *renderer.RenderTarget
	compute   *renderer.ComputeRenderer
	presenter *renderer.Presenter
}

func newFixture(t *testing.T, width, height int) *fixture {
	t.Helper()

	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	b := trace.New()
	target, err := renderer.NewRenderTarget(b, width, height)
	require.NoError(t, err)
	compute, err := renderer.NewComputeRenderer(b, programs.Compute)
	require.NoError(t, err)
	presenter, err := renderer.NewPresenter(b, programs.Present)
	require.NoError(t, err)

	b.Reset()
	return &fixture{backend: b, target: target, compute: compute, presenter: presenter}
}

func TestRenderTargetInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := renderer.NewRenderTarget(trace.New(), size[0], size[1])
		assert.ErrorIs(t, err, renderer.ErrInvalidSize)
	}
}

func TestRenderTargetReleaseIsIdempotent(t *testing.T) {
	b := trace.New()
	target, err := renderer.NewRenderTarget(b, 4, 4)
	require.NoError(t, err)
	require.Equal(t, 1, b.Live())

	target.Release()
	target.Release()
	assert.True(t, target.Released())
	assert.Zero(t, b.Live())
}

func TestComputeRenderCommandOrder(t *testing.T) {
	f := newFixture(t, 900, 700)
	cam := camera.NewCamera(camera.WithPosition(1, 2, 3))

	require.NoError(t, f.compute.Render(f.target, cam, 900, 700))

	ops := f.backend.Ops()
	require.Len(t, ops, 5)
	assert.Equal(t, []string{
		trace.OpUseProgram,
		trace.OpWriteBuffer,
		trace.OpBindImage,
		trace.OpDispatchCompute,
		trace.OpMemoryBarrier,
	}, f.backend.Names())

	snapshot := cam.Snapshot()
	assert.Equal(t, 0, ops[1].Args[1])
	assert.Equal(t, snapshot.Marshal(), ops[1].Args[2])

	assert.Equal(t, uint32(0), ops[2].Args[1])
	assert.Equal(t, renderer.AccessReadWrite, ops[2].Args[2])

	// 900/8 and 700/8 rounded up
	assert.Equal(t, []any{uint32(113), uint32(88), uint32(1)}, ops[3].Args)
	assert.Equal(t, renderer.BarrierImageAccess, ops[4].Args[0])

	assert.True(t, f.target.Synchronized())
}

func TestComputeRenderCoversEveryPixel(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {8, 8}, {9, 17}, {640, 480}, {901, 3}} {
		f := newFixture(t, size[0], size[1])
		require.NoError(t, f.compute.Render(f.target, camera.NewCamera(), size[0], size[1]))

		var dispatch trace.Op
		for _, op := range f.backend.Ops() {
			if op.Name == trace.OpDispatchCompute {
				dispatch = op
			}
		}
		group := f.compute.GroupSize()
		x, y := dispatch.Args[0].(uint32), dispatch.Args[1].(uint32)
		assert.GreaterOrEqual(t, int(x*group[0]), size[0])
		assert.GreaterOrEqual(t, int(y*group[1]), size[1])
		assert.Less(t, int((x-1)*group[0]), size[0])
		assert.Less(t, int((y-1)*group[1]), size[1])
	}
}

func TestComputeRenderRejectsBadInput(t *testing.T) {
	f := newFixture(t, 16, 16)
	cam := camera.NewCamera()

	assert.ErrorIs(t, f.compute.Render(f.target, cam, 32, 16), renderer.ErrInvalidSize)
	assert.ErrorIs(t, f.compute.Render(f.target, cam, 0, 16), renderer.ErrInvalidSize)

	f.target.Release()
	assert.ErrorIs(t, f.compute.Render(f.target, cam, 16, 16), renderer.ErrTargetReleased)
	assert.Zero(t, f.backend.Count(trace.OpDispatchCompute))
}

func TestCameraBufferNeverGrows(t *testing.T) {
	f := newFixture(t, 8, 8)
	cam := camera.NewCamera()

	for i := 0; i < 5; i++ {
		cam.MoveRelative(1, 0, 0)
		cam.LookRelative(5, 5, 5)
		require.NoError(t, f.compute.Render(f.target, cam, 8, 8))
	}

	for _, op := range f.backend.Ops() {
		if op.Name != trace.OpWriteBuffer {
			continue
		}
		buf := op.Args[0].(renderer.Buffer)
		assert.Equal(t, 0, op.Args[1])
		assert.Len(t, op.Args[2], buf.Size())
		assert.Equal(t, 80, buf.Size())
	}
}

func TestPresenterAssignsSamplerOnce(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	b := trace.New()
	target, err := renderer.NewRenderTarget(b, 4, 4)
	require.NoError(t, err)
	p, err := renderer.NewPresenter(b, programs.Present)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Present(target))
	}

	assert.Equal(t, 1, b.Count(trace.OpSetUniformInt))
	assert.Equal(t, 3, b.Count(trace.OpDrawIndexed))
	for _, op := range b.Ops() {
		if op.Name == trace.OpSetUniformInt {
			assert.Equal(t, renderer.ScreenSamplerName, op.Args[1])
			assert.Equal(t, int32(0), op.Args[2])
		}
		if op.Name == trace.OpCreateMesh {
			assert.Equal(t, []any{"screen quad", 16, 6}, op.Args)
		}
	}
}

func TestPresentCommandOrder(t *testing.T) {
	f := newFixture(t, 4, 4)

	require.NoError(t, f.presenter.Present(f.target))

	assert.Equal(t, []string{
		trace.OpClear,
		trace.OpUseProgram,
		trace.OpBindTexture,
		trace.OpDrawIndexed,
	}, f.backend.Names())

	ops := f.backend.Ops()
	assert.Equal(t, renderer.DefaultClearColor, ops[0].Args[0])
	assert.Equal(t, f.target.Image(), ops[2].Args[0])
	assert.Equal(t, uint32(0), ops[2].Args[1])
	assert.Equal(t, 6, ops[3].Args[1])
}

func TestPresenterOptions(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	color := [4]float32{1, 0, 0, 1}
	p, err := renderer.NewPresenter(trace.New(), programs.Present,
		renderer.WithClearColor(color),
		renderer.WithTextureUnit(3),
	)
	require.NoError(t, err)
	assert.Equal(t, color, p.ClearColor())
	assert.Equal(t, uint32(3), p.TextureUnit())
}

func TestPresenterKeepsTransparentBlack(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	backend := trace.New()
	p, err := renderer.NewPresenter(backend, programs.Present, renderer.WithClearColor([4]float32{}))
	require.NoError(t, err)
	assert.Equal(t, [4]float32{}, p.ClearColor())

	p2, err := renderer.NewPresenter(backend, programs.Present)
	require.NoError(t, err)
	assert.Equal(t, renderer.DefaultClearColor, p2.ClearColor())
}

func TestPresentRefusesUnsynchronizedTarget(t *testing.T) {
	f := newFixture(t, 4, 4)

	renderer.MarkWritten(f.target)
	assert.ErrorIs(t, f.presenter.Present(f.target), renderer.ErrTargetNotSynchronized)

	f.target.Release()
	assert.ErrorIs(t, f.presenter.Present(f.target), renderer.ErrTargetReleased)
	assert.Zero(t, f.backend.Count(trace.OpDrawIndexed))
}

func TestBarrierPrecedesEverySample(t *testing.T) {
	f := newFixture(t, 64, 48)
	cam := camera.NewCamera()

	const frames = 50
	for i := 0; i < frames; i++ {
		cam.LookRelative(float32(i), 0, 0)
		require.NoError(t, f.compute.Render(f.target, cam, 64, 48))
		require.NoError(t, f.presenter.Present(f.target))
	}

	names := f.backend.Names()
	pending := false
	for i, name := range names {
		switch name {
		case trace.OpDispatchCompute:
			pending = true
			require.Less(t, i+1, len(names))
			assert.Equal(t, trace.OpMemoryBarrier, names[i+1], "dispatch at %d not followed by a barrier", i)
		case trace.OpMemoryBarrier:
			pending = false
		case trace.OpBindTexture, trace.OpDrawIndexed:
			assert.False(t, pending, "sample at %d before barrier", i)
		}
	}
	assert.Equal(t, frames, f.backend.Count(trace.OpDispatchCompute))
	assert.Equal(t, frames, f.backend.Count(trace.OpDrawIndexed))
}

func TestSetupErrorsPropagate(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	b := trace.New()
	b.FailLink("ray tracer", "error: unresolved symbol")
	_, err = renderer.NewComputeRenderer(b, programs.Compute)
	var linkErr *shader.LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, "ray tracer", linkErr.Program)

	b = trace.New()
	b.FailCompile(shader.ScreenFragGLSL, "0:3: 'texture' : no matching function")
	_, err = renderer.NewPresenter(b, programs.Present)
	var compileErr *shader.CompilationError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, shader.ShaderTypeFragment, compileErr.Stage)
}

func TestProgramStagesAreChecked(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	_, err = renderer.NewComputeRenderer(trace.New(), programs.Present)
	assert.ErrorIs(t, err, renderer.ErrUnsupportedStages)

	_, err = renderer.NewPresenter(trace.New(), programs.Compute)
	assert.ErrorIs(t, err, renderer.ErrUnsupportedStages)
}

func TestReleaseFreesEveryHandle(t *testing.T) {
	f := newFixture(t, 8, 8)
	require.Positive(t, f.backend.Live())

	f.presenter.Release()
	f.compute.Release()
	f.target.Release()
	assert.Zero(t, f.backend.Live())
}

func TestComputeRendererHoldsScene(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	w := world.New()
	require.NoError(t, w.SetVoxel(1, 2, 3, 7))
	r, err := renderer.NewComputeRenderer(trace.New(), programs.Compute, renderer.WithScene(w), renderer.WithImageUnit(2))
	require.NoError(t, err)
	assert.Equal(t, world.BlockID(7), r.Scene().VoxelAt(1, 2, 3))
}

func TestUniformBufferRejectsWrongSize(t *testing.T) {
	b := trace.New()
	u, err := renderer.NewUniformBuffer(b, "camera", 80, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, u.Write(make([]byte, 96)), renderer.ErrUniformOverflow)
	assert.ErrorIs(t, u.Write(make([]byte, 64)), renderer.ErrUniformOverflow)
	assert.NoError(t, u.Write(make([]byte, 80)))
	assert.Equal(t, 1, b.Count(trace.OpWriteBuffer))
}

func TestVertexLayout(t *testing.T) {
	l, err := renderer.NewVertexLayout(renderer.QuadVertices, renderer.QuadAttributeSizes)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Stride)
	assert.Equal(t, []int{0, 8}, l.Offsets)
	assert.Equal(t, 4, l.VertexCount)
	assert.NoError(t, l.CheckIndices(renderer.QuadIndices))

	assert.ErrorIs(t, l.CheckIndices([]uint32{0, 1, 4}), renderer.ErrInvalidLayout)
	assert.ErrorIs(t, l.CheckIndices([]uint32{0, 1}), renderer.ErrInvalidLayout)

	_, err = renderer.NewVertexLayout([]float32{1, 2, 3}, []int{2})
	assert.ErrorIs(t, err, renderer.ErrInvalidLayout)
	_, err = renderer.NewVertexLayout([]float32{1, 2}, []int{5})
	assert.ErrorIs(t, err, renderer.ErrInvalidLayout)
	_, err = renderer.NewVertexLayout([]float32{1, 2}, nil)
	assert.ErrorIs(t, err, renderer.ErrInvalidLayout)
}

func TestGPUErrorMessage(t *testing.T) {
	assert.Equal(t, "gpu error 0x0502: GL_INVALID_OPERATION", renderer.GPUError{Code: 0x0502, Message: "GL_INVALID_OPERATION"}.Error())
	assert.Equal(t, "gpu error 0x0500", renderer.GPUError{Code: 0x0500}.Error())
}
