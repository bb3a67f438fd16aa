package model_test

import (
	"testing"

	"distbuild/internal/fixture"
	"distbuild/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_ValidateFixtures(t *testing.T) {
	ref := fixture.Reference()
	assert.NoError(t, fixture.BuildProject().Validate(ref))
	assert.NoError(t, fixture.TestProject().Validate(ref))
}

func TestProject_Validate(t *testing.T) {
	tests := []struct {
		name      string
		project   func() *model.Project
		wantField string
		wantMsg   string
	}{
		{
			name: "unknown product",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Product = "games"
				return p
			},
			wantField: "product",
			wantMsg:   "unknown product",
		},
		{
			name: "project id with separator",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.ID = "my-engine"
				return p
			},
			wantField: "id",
			wantMsg:   "must not contain '.', '-'",
		},
		{
			name: "project id with delimiter",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.ID = "engine.v2"
				return p
			},
			wantField: "id",
			wantMsg:   "must not contain '.', '-'",
		},
		{
			name: "unknown build provider",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.BuildProviders = append(p.BuildProviders, "mainframe")
				return p
			},
			wantField: "buildProviders[2]",
			wantMsg:   "unknown build provider",
		},
		{
			name: "duplicate platform node",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config = append(p.Config, &model.PlatformNode{Platform: "win10", Provider: "vm"})
				return p
			},
			wantField: "config[2]",
			wantMsg:   "duplicate platform node",
		},
		{
			name: "provider not offered",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[1].Provider = "docker"
				return p
			},
			wantField: "config[1].provider",
			wantMsg:   "provider not offered",
		},
		{
			name: "unknown platform",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[1].Platform = "solaris"
				return p
			},
			wantField: "config[1].platform",
			wantMsg:   "unknown platform",
		},
		{
			name: "duplicate variant combination",
			project: func() *model.Project {
				p := fixture.BuildProject()
				tn := p.Config[0].Tasks[0]
				tn.Variants = append(tn.Variants, &model.VariantNode{Values: model.Combination{"debug": "on"}})
				return p
			},
			wantField: "config[0].tasks[0].variants[3]",
			wantMsg:   "duplicate variant combination, same as variants[1]",
		},
		{
			name: "spelled out default duplicates implicit default",
			project: func() *model.Project {
				p := fixture.BuildProject()
				tn := p.Config[0].Tasks[0]
				tn.Variants = append(tn.Variants, &model.VariantNode{Values: model.Combination{"debug": "off", "sanitizer": "none"}})
				return p
			},
			wantField: "config[0].tasks[0].variants[3]",
			wantMsg:   "duplicate variant combination, same as variants[0]",
		},
		{
			name: "duplicate nested test combination",
			project: func() *model.Project {
				p := fixture.BuildProject()
				tn := p.Config[1].Tasks[0].Variants[0].Nested[0].Tasks[0]
				tn.Variants = append(tn.Variants, &model.VariantNode{Values: model.Combination{"suite": "quick"}})
				return p
			},
			wantField: "config[1].tasks[0].variants[0].nested[0].tasks[0].variants[1]",
			wantMsg:   "duplicate variant combination",
		},
		{
			name: "same test below two build tasks",
			project: func() *model.Project {
				p := fixture.BuildProject()
				for _, tn := range p.Config[0].Tasks {
					tn.Variants[0].Nested = []*model.PlatformNode{unitOnDocker()}
				}
				return p
			},
			wantField: "config[0].tasks[1].variants[0].nested[0].tasks[0].variants[0]",
			wantMsg:   "test job name already produced below build task compile",
		},
		{
			name: "spelled out test default below another build task",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[0].Tasks[0].Variants[0].Nested = []*model.PlatformNode{unitOnDocker()}
				nested := unitOnDocker()
				nested.Tasks[0].Variants[0].Values = model.Combination{"suite": "quick"}
				p.Config[0].Tasks[1].Variants[0].Nested = []*model.PlatformNode{nested}
				return p
			},
			wantField: "config[0].tasks[1].variants[0].nested[0].tasks[0].variants[0]",
			wantMsg:   "test job name already produced below build task compile",
		},
		{
			name: "unknown variant",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[0].Tasks[0].Variants[1].Values = model.Combination{"debug": "verbose"}
				return p
			},
			wantField: "config[0].tasks[0].variants[1].values",
			wantMsg:   `unknown variant "verbose"`,
		},
		{
			name: "test category at build level",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[0].Tasks[0].Variants[1].Values = model.Combination{"suite": "full"}
				return p
			},
			wantField: "config[0].tasks[0].variants[1].values",
			wantMsg:   `unknown variant category "suite"`,
		},
		{
			name: "test task at build level",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Config[0].Tasks[1].Task = "unit"
				return p
			},
			wantField: "config[0].tasks[1].task",
			wantMsg:   "TEST task used where a BUILD task is required",
		},
		{
			name: "task not allowed",
			project: func() *model.Project {
				p := fixture.BuildProject()
				p.Product = "tools"
				return p
			},
			wantField: "config[0].tasks[1].task",
			wantMsg:   "task not allowed",
		},
		{
			name: "nesting in test project",
			project: func() *model.Project {
				p := fixture.TestProject()
				vn := p.Config[0].Tasks[0].Variants[0]
				vn.Nested = []*model.PlatformNode{{Platform: "el7", Provider: "vm"}}
				return p
			},
			wantField: "config[0].tasks[0].variants[0].nested",
			wantMsg:   "nested configuration is only allowed below build variants",
		},
		{
			name: "nesting below the test level",
			project: func() *model.Project {
				p := fixture.BuildProject()
				vn := p.Config[1].Tasks[0].Variants[0].Nested[0].Tasks[0].Variants[0]
				vn.Nested = []*model.PlatformNode{{Platform: "el7", Provider: "vm"}}
				return p
			},
			wantField: "config[1].tasks[0].variants[0].nested[0].tasks[0].variants[0].nested",
			wantMsg:   "nested configuration is only allowed below build variants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project().Validate(fixture.Reference())
			require.Error(t, err)

			errs := model.ValidationErrorsOf(err)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs.Fields(), tt.wantField)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func unitOnDocker() *model.PlatformNode {
	return &model.PlatformNode{
		Platform: "el7", Provider: "docker",
		Tasks: []*model.TaskNode{
			{Task: "unit", Variants: []*model.VariantNode{{Values: model.Combination{}}}},
		},
	}
}

func TestProject_ValidateSameTestBelowDifferentBuilds(t *testing.T) {
	ref := fixture.Reference()

	// package builds only the default combination; the asan build of
	// compile already runs unit on el7.docker, which yields another name.
	p := fixture.BuildProject()
	p.Config[0].Tasks[1].Variants[0].Nested = []*model.PlatformNode{unitOnDocker()}
	assert.NoError(t, p.Validate(ref))

	// Distinct test platforms below the same build combination.
	p = fixture.BuildProject()
	p.Config[0].Tasks[0].Variants[0].Nested = []*model.PlatformNode{unitOnDocker()}
	other := unitOnDocker()
	other.Platform = "debian11"
	p.Config[0].Tasks[1].Variants[0].Nested = []*model.PlatformNode{other}
	assert.NoError(t, p.Validate(ref))
}

func TestReferenceData(t *testing.T) {
	ref := fixture.Reference()

	p, ok := ref.Platform("el7")
	require.True(t, ok)
	assert.Equal(t, "el7.x86_64", p.String())

	_, ok = ref.Task("deploy")
	assert.False(t, ok)

	build := ref.Categories(model.TaskKindBuild)
	require.Len(t, build, 2)
	assert.Equal(t, "debug", build[0].ID)
	assert.Equal(t, "sanitizer", build[1].ID)
	assert.Len(t, ref.Categories(model.TaskKindTest), 1)

	assert.True(t, ref.HasProvider("cloud"))
	assert.True(t, ref.HasProduct("core"))
	assert.Equal(t, []string{"java", "java-beta", "libcore"}, ref.Packages())
	assert.Equal(t, []string{"bench", "engine", "proj"}, ref.Projects())
	assert.Len(t, ref.Platforms(), 3)
	assert.Equal(t, "compile", ref.Tasks()[0].ID)
}
