// Package fixture holds the reference data and projects shared by the
// package tests.
package fixture

import (
	"distbuild/internal/model"
)

// Platforms returns the fixture platforms: el7 and win10 on vm, el7 and
// debian11 on docker.
func Platforms() []*model.Platform {
	return []*model.Platform{
		{ID: "el7", OS: "el", OSVersion: "7", Arch: "x86_64", Providers: []string{"vm", "docker"}},
		{ID: "win10", OS: "win", OSVersion: "10", Arch: "amd64", Alias: "windows", Providers: []string{"vm"}},
		{ID: "debian11", OS: "debian", OSVersion: "11", Arch: "arm64", Providers: []string{"docker"}},
	}
}

// Tasks returns two build tasks and two test tasks; smoke is denied on win10.
func Tasks() []*model.Task {
	return []*model.Task{
		{ID: "compile", Script: "compile.sh", Kind: model.TaskKindBuild, Poll: "H/15 * * * *", Template: "build"},
		{ID: "package", Script: "package.sh", Kind: model.TaskKindBuild, Products: model.Limitation{Deny: []string{"tools"}}},
		{ID: "unit", Script: "unit.sh", Kind: model.TaskKindTest, Machine: "large", Template: "test"},
		{ID: "smoke", Script: "smoke.sh", Kind: model.TaskKindTest, Platforms: model.Limitation{Deny: []string{"win10"}}},
	}
}

// Categories returns the build categories debug and sanitizer and the test
// category suite.
func Categories() []*model.VariantCategory {
	return []*model.VariantCategory{
		{
			ID: "sanitizer", Label: "Sanitizer", Usage: model.TaskKindBuild, Order: 2,
			Values: map[string]model.VariantValue{
				"none": {Label: "None"},
				"asan": {Label: "AddressSanitizer"},
				"tsan": {Label: "ThreadSanitizer"},
			},
			Default: "none",
		},
		{
			ID: "debug", Label: "Debug", Usage: model.TaskKindBuild, Order: 1,
			Values: map[string]model.VariantValue{
				"off": {Label: "Release"},
				"on":  {Label: "Debug"},
			},
			Default: "off",
		},
		{
			ID: "suite", Label: "Suite", Usage: model.TaskKindTest, Order: 1,
			Values: map[string]model.VariantValue{
				"quick": {Label: "Quick"},
				"full":  {Label: "Full"},
			},
			Default: "quick",
		},
	}
}

// Snapshot returns the complete fixture snapshot.
func Snapshot() model.Snapshot {
	return model.Snapshot{
		Platforms:  Platforms(),
		Tasks:      Tasks(),
		Categories: Categories(),
		Products:   []string{"core", "tools"},
		Providers:  []string{"vm", "docker", "cloud"},
		Packages:   []string{"java", "java-beta", "libcore"},
		Projects:   []string{"engine", "bench", "proj"},
	}
}

// Reference returns a fresh ReferenceData over Snapshot.
func Reference() *model.ReferenceData {
	return model.NewReferenceData(Snapshot())
}

// BuildProject returns the build project "engine": three build variants
// on el7/vm, one of which carries nested tests, and a default build on
// win10/vm. Default values are never spelled out; see SpellOutDefaults.
func BuildProject() *model.Project {
	return &model.Project{
		ID:             "engine",
		Product:        "core",
		Kind:           model.ProjectKindBuild,
		Repository:     model.Repository{URL: "https://git.example.com/core/engine.git", Version: "main"},
		BuildProviders: []string{"docker", "vm"},
		Variables:      map[string]string{"CC": "gcc", "JOBS": "8"},
		ScriptRoot:     "ci/scripts",
		RepoState:      model.RepoCloned,
		Config: []*model.PlatformNode{
			{
				Platform: "el7", Provider: "vm",
				Tasks: []*model.TaskNode{
					{
						Task: "compile",
						Variants: []*model.VariantNode{
							{Values: model.Combination{}},
							{Values: model.Combination{"debug": "on"}},
							{
								Values: model.Combination{"debug": "on", "sanitizer": "asan"},
								Nested: []*model.PlatformNode{
									{
										Platform: "el7", Provider: "docker",
										Tasks: []*model.TaskNode{
											{
												Task: "unit",
												Variants: []*model.VariantNode{
													{Values: model.Combination{}},
													{Values: model.Combination{"suite": "full"}},
												},
											},
											{
												Task:     "smoke",
												Variants: []*model.VariantNode{{Values: model.Combination{}}},
											},
										},
									},
								},
							},
						},
					},
					{
						Task:     "package",
						Variants: []*model.VariantNode{{Values: model.Combination{}}},
					},
				},
			},
			{
				Platform: "win10", Provider: "vm",
				Tasks: []*model.TaskNode{
					{
						Task: "compile",
						Variants: []*model.VariantNode{
							{
								Values: model.Combination{},
								Nested: []*model.PlatformNode{
									{
										Platform: "win10", Provider: "vm",
										Tasks: []*model.TaskNode{
											{Task: "unit", Variants: []*model.VariantNode{{Values: model.Combination{}}}},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// TestProject returns the test-only project "bench".
func TestProject() *model.Project {
	return &model.Project{
		ID:             "bench",
		Product:        "tools",
		Kind:           model.ProjectKindTest,
		Repository:     model.Repository{URL: "https://git.example.com/tools/bench.git", Version: "v2"},
		BuildProviders: []string{"docker"},
		ScriptRoot:     "scripts",
		RepoState:      model.RepoNotCloned,
		Config: []*model.PlatformNode{
			{
				Platform: "el7", Provider: "docker",
				Tasks: []*model.TaskNode{
					{Task: "unit", Variants: []*model.VariantNode{{Values: model.Combination{"suite": "full"}}}},
				},
			},
			{
				Platform: "debian11", Provider: "docker",
				Tasks: []*model.TaskNode{
					{Task: "smoke", Variants: []*model.VariantNode{{Values: model.Combination{}}}},
				},
			},
		},
	}
}

// SpellOutDefaults rewrites every combination of p to name all its
// categories, default values included, and returns p.
func SpellOutDefaults(p *model.Project) *model.Project {
	usage := model.TaskKindBuild
	if p.Kind == model.ProjectKindTest {
		usage = model.TaskKindTest
	}
	spellOut(p.Config, Reference(), usage)
	return p
}

func spellOut(nodes []*model.PlatformNode, ref *model.ReferenceData, usage model.TaskKind) {
	for _, pn := range nodes {
		for _, tn := range pn.Tasks {
			for _, vn := range tn.Variants {
				choices, err := model.Resolve(vn.Values, ref.Categories(usage))
				if err != nil {
					panic(err)
				}
				vn.Values = model.CombinationOf(choices)
				spellOut(vn.Nested, ref, model.TaskKindTest)
			}
		}
	}
}
