package agent

import "helix/pkg/llm"

// Tool names offered to the decision-maker. The set is closed at startup;
// dispatch happens over a fixed map, never reflection.
const (
	ToolReadFile      = "read_file"
	ToolWriteFile     = "write_file"
	ToolListDirectory = "list_directory"
	ToolRunPython     = "run_python"
	ToolListTools     = "tamarind_list_tools"
	ToolGetToolSpec   = "tamarind_get_tool_spec"
	ToolUploadFile    = "tamarind_upload_file"
	ToolSubmitJob     = "tamarind_submit_job"
	ToolTaskComplete  = "task_complete"
)

// CompletePrefix marks the result of the completion tool. The loop watches
// for it to end the run.
const CompletePrefix = "TASK_COMPLETE: "

// Catalog returns the full tool catalog — the contract offered to the
// decision-maker on every turn.
func Catalog() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name:        ToolReadFile,
			Description: "Read the contents of a file (PDB, JSON, CSV, Python, etc.).",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"path": {Type: "string", Description: "Path to the file (relative to task directory)"},
			}, "path"),
		},
		{
			Name:        ToolWriteFile,
			Description: "Write content to a file in the output directory.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"path":    {Type: "string", Description: "Path to write (relative to output directory)"},
				"content": {Type: "string", Description: "Content to write"},
			}, "path", "content"),
		},
		{
			Name:        ToolListDirectory,
			Description: "List files and directories in a path.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"path": {Type: "string", Description: "Directory path (relative to task directory)"},
			}, "path"),
		},
		{
			Name:        ToolRunPython,
			Description: "Execute Python code. Available: numpy, pandas, BioPython. Use print() for output. The working directory is the task directory.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"code": {Type: "string", Description: "Python code to execute"},
			}, "code"),
		},
		{
			Name:        ToolListTools,
			Description: "List available tools on the Tamarind Bio API (proteinmpnn, esmfold, alphafold, etc.).",
			Parameters:  llm.ObjectSchema(map[string]llm.Property{}),
		},
		{
			Name:        ToolGetToolSpec,
			Description: "Get the specification and parameters for a Tamarind tool. ALWAYS call this before using a tool to understand its parameters.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"tool_name": {Type: "string", Description: "Name of the tool (e.g., 'proteinmpnn', 'esmfold')"},
			}, "tool_name"),
		},
		{
			Name:        ToolUploadFile,
			Description: "Upload a file to Tamarind Bio (required before using it in jobs).",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"filepath": {Type: "string", Description: "Path to file (relative to task directory)"},
			}, "filepath"),
		},
		{
			Name:        ToolSubmitJob,
			Description: "Submit a job to Tamarind Bio and wait for results. Pass all parameters inside the 'params' object.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"tool_name": {Type: "string", Description: "Tool name (e.g., 'proteinmpnn', 'esmfold')"},
				"params":    {Type: "object", Description: "Job parameters as key-value pairs. Check tamarind_get_tool_spec for required params."},
			}, "tool_name", "params"),
		},
		{
			Name:        ToolTaskComplete,
			Description: "Call when you have completed the task with a summary.",
			Parameters: llm.ObjectSchema(map[string]llm.Property{
				"summary": {Type: "string", Description: "Summary of completed work and key findings"},
			}, "summary"),
		},
	}
}
