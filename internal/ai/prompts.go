package ai

// BuildResumePrompt returns the extraction prompt for resume text.
func BuildResumePrompt(text string) string {
	return `You are an expert resume parser. Extract a clean, structured JSON from the resume text below.

Rules for extraction:
1) Grounded extraction (no hallucination)
   - Use only information present in the resume text.
   - Prefer literal text, but you MAY infer skills if they are clearly implied by experience, projects, or achievements.
   - Do NOT invent degrees, employers, or dates that are not present.

2) Skills extraction
   - Include skills listed in a dedicated Skills section if present.
   - ALSO include skills clearly mentioned in experience, projects, summary, or achievements.
   - Normalize skill tokens (trim, deduplicate, keep concise terms like "AWS", "Kubernetes", "TensorFlow").

3) Work experience
   - Extract as an array of objects with fields: job_title, company, duration, description.
   - The duration can be any textual form present (e.g., "Jan 2021 - Present"). If missing, use an empty string.

4) Certifications, projects, education
   - Return arrays of strings (certifications, education) or objects with title and description (projects).
   - Do not fabricate items; include only what the text supports.

5) Output quality
   - Keep arrays concise and deduplicated.
   - Use proper JSON only. No markdown, no comments, no extra text.

Required JSON schema:
{
  "full_name": "",
  "email": "",
  "phone": "",
  "location": "",
  "skills": [""],
  "work_experience": [
    {"job_title": "", "company": "", "duration": "", "description": ""}
  ],
  "certifications": [""],
  "projects": [
    {"title": "", "description": ""}
  ],
  "education": [""],
  "summary": ""
}

Resume text:
` + text + `

Return ONLY the JSON object.`
}

// BuildJobPrompt returns the extraction prompt for job description text.
func BuildJobPrompt(text string) string {
	return `You are an expert job description parser. Extract a clean, structured JSON from the job description text below.

Rules for extraction:
1) Use only information present in the text. Do not invent requirements.
2) required_skills must list concrete, concise skill tokens (e.g., "Go", "PostgreSQL", "Kubernetes"), deduplicated.
3) experience is the experience requirement as stated (e.g., "3-5 years"). If missing, use an empty string.
4) summary is a 1-2 sentence description of the role in your own words, grounded in the text.
5) Use proper JSON only. No markdown, no comments, no extra text.

Required JSON schema:
{
  "title": "",
  "company": "",
  "location": "",
  "required_skills": [""],
  "experience": "",
  "summary": ""
}

Job description text:
` + text + `

Return ONLY the JSON object.`
}
