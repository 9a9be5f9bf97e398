package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csproj-migrator/internal/config"
	"github.com/ginjaninja78/csproj-migrator/internal/projectfile"
	"github.com/ginjaninja78/csproj-migrator/pkg/utils"
)

const legacyProject = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <Import Project="$(MSBuildExtensionsPath)\$(MSBuildToolsVersion)\Microsoft.Common.props" />
  <ItemGroup>
    <Compile Include="**\*.cs" />
  </ItemGroup>
  <ItemGroup>
    <PackageReference Include="Microsoft.NET.Sdk">
      <Version>1.0.0-msbuild1-final</Version>
      <PrivateAssets>All</PrivateAssets>
    </PackageReference>
  </ItemGroup>
  <Import Project="$(MSBuildToolsPath)\Microsoft.CSharp.targets" />
</Project>
`

// execute runs the root command with args and returns its output and error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.ConfigEnvVar, "")
	t.Setenv(config.LogLevelEnvVar, "")

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "App.csproj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_Usage(t *testing.T) {
	t.Run("Should reject zero arguments", func(t *testing.T) {
		_, err := execute(t)
		require.ErrorIs(t, err, errUsage)
	})

	t.Run("Should reject two arguments without touching either file", func(t *testing.T) {
		a := writeProject(t, legacyProject)
		b := writeProject(t, legacyProject)

		_, err := execute(t, a, b)

		require.ErrorIs(t, err, errUsage)
		for _, p := range []string{a, b} {
			data, readErr := os.ReadFile(p)
			require.NoError(t, readErr)
			assert.Equal(t, legacyProject, string(data))
			_, statErr := os.Stat(p + ".bak")
			assert.True(t, os.IsNotExist(statErr))
		}
	})

	t.Run("Should print the usage line and exit code 1", func(t *testing.T) {
		var buf bytes.Buffer
		code := report(&buf, errUsage)
		assert.Equal(t, 1, code)
		assert.Equal(t, "Usage: csproj-migrator <path to csproj file>\n\n", buf.String())

		buf.Reset()
		code = report(&buf, os.ErrNotExist)
		assert.Equal(t, 1, code)
		assert.True(t, strings.HasPrefix(buf.String(), "Error: "))
	})
}

func TestRootCommand_Migrate(t *testing.T) {
	t.Run("Should migrate a legacy project and keep a backup", func(t *testing.T) {
		path := writeProject(t, legacyProject)

		out, err := execute(t, path)
		require.NoError(t, err)

		backup, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Equal(t, legacyProject, string(backup))

		doc, err := projectfile.Load(fileSystem, path)
		require.NoError(t, err)
		root := doc.Tree.Root()
		assert.Equal(t, "Microsoft.NET.Sdk", root.SelectAttrValue("Sdk", ""))
		assert.Nil(t, root.SelectAttr("xmlns"))
		assert.Empty(t, root.SelectElements("Import"))
		assert.Empty(t, root.SelectElements("ItemGroup"))
		assert.Empty(t, root.FindElements("//PackageReference"))
		assert.Equal(t, "15.0", root.SelectAttrValue("ToolsVersion", ""))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

		assert.Contains(t, out, "Wildcard include of *.resx files was not found.")
		assert.Contains(t, out, "Migrated project file")
	})

	t.Run("Should log the web SDK choice and upgrade tool versions", func(t *testing.T) {
		path := writeProject(t, `<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <PackageReference Include="Microsoft.NET.Sdk.Web"><Version>1.0.0-msbuild1-final</Version></PackageReference>
    <DotNetCliToolReference Include="Microsoft.DotNet.Watcher.Tools"><Version>1.0.0-msbuild1-final</Version></DotNetCliToolReference>
    <PackageReference Include="Serilog" />
  </ItemGroup>
</Project>`)

		out, err := execute(t, path)
		require.NoError(t, err)

		doc, err := projectfile.Load(fileSystem, path)
		require.NoError(t, err)
		root := doc.Tree.Root()
		assert.Equal(t, "Microsoft.NET.Sdk.Web", root.SelectAttrValue("Sdk", ""))
		tool := root.FindElement("//DotNetCliToolReference")
		require.NotNil(t, tool)
		assert.Equal(t, "1.0.0-msbuild2-final", tool.SelectAttrValue("Version", ""))
		assert.Empty(t, tool.ChildElements())

		assert.Contains(t, out, "Microsoft.NET.Sdk.Web will be used.")
		assert.Contains(t, out, "The PackageReference to Serilog doesn't contain the Version element.")
		assert.Contains(t, out, "Import of Microsoft.Common.props was not found.")
		assert.Contains(t, out, "Import of Microsoft.CSharp.targets was not found.")
	})

	t.Run("Should migrate the target of a symlinked project file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "real.csproj")
		link := filepath.Join(dir, "App.csproj")
		require.NoError(t, os.WriteFile(target, []byte(legacyProject), 0o644))
		require.NoError(t, os.Symlink("real.csproj", link))

		_, err := execute(t, link)
		require.NoError(t, err)

		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		doc, err := projectfile.Load(fileSystem, target)
		require.NoError(t, err)
		assert.Equal(t, "Microsoft.NET.Sdk", doc.Tree.Root().SelectAttrValue("Sdk", ""))
		backup, err := os.ReadFile(link + ".bak")
		require.NoError(t, err)
		assert.Equal(t, legacyProject, string(backup))
	})

	t.Run("Should refuse a second run while the backup exists", func(t *testing.T) {
		path := writeProject(t, legacyProject)
		_, err := execute(t, path)
		require.NoError(t, err)
		migrated, err := os.ReadFile(path)
		require.NoError(t, err)

		_, err = execute(t, path)

		require.ErrorIs(t, err, utils.ErrBackupExists)
		again, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, string(migrated), string(again))
	})

	t.Run("Should fail on malformed XML without writing a backup", func(t *testing.T) {
		path := writeProject(t, `<Project><ItemGroup></Project>`)

		_, err := execute(t, path)

		require.Error(t, err)
		_, statErr := os.Stat(path + ".bak")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := execute(t, filepath.Join(t.TempDir(), "Missing.csproj"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read project file")
	})

	t.Run("Should apply rules from the config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  backup_suffix: .orig\nlog_level: error\n"), 0o644))
		path := writeProject(t, legacyProject)

		t.Setenv(config.ConfigEnvVar, cfgPath)
		t.Setenv(config.LogLevelEnvVar, "")
		var out bytes.Buffer
		require.NoError(t, runMigrate(&out, path))

		_, err := os.Stat(path + ".orig")
		require.NoError(t, err)
		assert.Empty(t, out.String())
	})
}

func TestRootCommand_Version(t *testing.T) {
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })

	out, err := execute(t, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "csproj-migrator")
	assert.Contains(t, out, "Version:    "+Version)
}
