package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// CheckShaders reflects every embedded shader, validates the WGSL ones with naga and prints a
// table. It fails if any WGSL source does not compile.
func CheckShaders(ctx *cli.Context) error {
	setupLogging(ctx)

	shaders, err := shader.LoadAll()
	if err != nil {
		return err
	}

	failed := displayShaders(ctx.App.Writer, shaders)
	if failed > 0 {
		return fmt.Errorf("%d shader(s) failed validation", failed)
	}
	return nil
}

// displayShaders writes one row per shader and returns how many failed validation.
func displayShaders(w io.Writer, shaders []shader.Shader) int {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Shader", "Stage", "Language", "Entry", "Workgroup", "Bindings", "Validation"})

	failed := 0
	for _, s := range shaders {
		validation := "skipped"
		if s.Language() == shader.LanguageWGSL {
			size, err := shader.Validate(s)
			if err != nil {
				failed++
				validation = "FAILED"
				logger.Errorf("%s: %v", s.Key(), err)
			} else {
				validation = fmt.Sprintf("ok (%d bytes SPIR-V)", size)
			}
		}

		workgroup := "-"
		if s.ShaderType() == shader.ShaderTypeCompute {
			size := s.WorkgroupSize()
			workgroup = fmt.Sprintf("%dx%dx%d", size[0], size[1], size[2])
		}

		table.Append([]string{
			s.Key(),
			s.ShaderType().String(),
			s.Language().String(),
			s.EntryPoint(),
			workgroup,
			formatBindings(s.Bindings()),
			validation,
		})
	}

	table.Render()
	return failed
}

func formatBindings(bindings []shader.Binding) string {
	if len(bindings) == 0 {
		return "-"
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = fmt.Sprintf("%d:%d %s", b.Group, b.Binding, b.Name)
	}
	return strings.Join(parts, ", ")
}
