package agent

import (
	"fmt"
	"os"
	"path/filepath"
)

// questionFile is the task description document inside a task directory.
const questionFile = "question.md"

// fallbackDescription is used when the task directory has no question.md.
const fallbackDescription = "Complete the computational biology task in this directory. Explore the files to understand requirements."

// LoadTaskDescription reads question.md from taskDir, falling back to a
// generic exploration instruction when it is absent.
func LoadTaskDescription(taskDir string) string {
	data, err := os.ReadFile(filepath.Join(taskDir, questionFile))
	if err != nil {
		return fallbackDescription
	}
	return string(data)
}

// Kickoff is the first user message of every run.
const Kickoff = "Please complete the task. Start by exploring the available files."

// systemPromptTemplate frames the run: task description, capability
// summary, and workflow guidance. Kept task-agnostic — the description is
// the only per-task part.
const systemPromptTemplate = `You are an expert computational biologist. Complete the task step by step using the available tools.

TASK DESCRIPTION:
%s

AVAILABLE TOOLS:
- read_file: Read files (PDB, JSON, CSV, Python, etc.)
- write_file: Save outputs to the output directory
- list_directory: Explore available files
- run_python: Execute Python code (numpy, pandas, BioPython available)
- tamarind_list_tools: List available Tamarind Bio ML tools
- tamarind_get_tool_spec: Get tool parameters (ALWAYS call before using a tool)
- tamarind_upload_file: Upload files for Tamarind jobs
- tamarind_submit_job: Submit jobs to Tamarind Bio
- task_complete: Call when done with a summary

GENERAL WORKFLOW:
1. Explore the task directory to understand available data
2. Read the task description and requirements carefully
3. Implement the analysis using Python code and/or Tamarind tools
4. For Tamarind tools:
   a. Call tamarind_get_tool_spec to understand required parameters
   b. Upload any required files with tamarind_upload_file
   c. Submit jobs with tamarind_submit_job
5. Save intermediate and final results as JSON/CSV files
6. Call task_complete with a summary when finished

PYTHON ENVIRONMENT:
- BioPython, NumPy, and Pandas are available
- Use print() to output results
- The working directory is the task directory

Be methodical, save intermediate results, and try alternatives if something fails.`

// SystemPrompt builds the system message for a run.
func SystemPrompt(taskDescription string) string {
	return fmt.Sprintf(systemPromptTemplate, taskDescription)
}
