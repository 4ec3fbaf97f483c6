package extraction

// Instruction templates for the two supported document types. Both demand
// the same JSON record shape; they differ in what the service is told to
// prioritize. The templates are compiled once in NewEngine.

// recordShapeInstructions describes the JSON contract shared by both
// document types. Percentages must be converted to fractions before they
// reach us; the parser rejects anything outside [0,1].
const recordShapeInstructions = `Respond with a single JSON object and nothing else. The object must have this shape:

{
  "course_info": {
    "name": "course title if stated",
    "code": "course code if stated, e.g. STAT 101",
    "instructor": "instructor name if stated",
    "semester": "semester label if stated, e.g. Fall 2025",
    "credits": 0
  },
  "grading_weights": [
    {"name": "category name", "weight_fraction": 0.0}
  ],
  "assignments": [
    {
      "title": "assignment title",
      "type": "homework|quiz|exam|project|participation|other",
      "due_date": "YYYY-MM-DD if stated",
      "week_number": 0,
      "points": 0,
      "weight_category": "grading category name if identifiable"
    }
  ],
  "schedule": [
    {
      "week_number": 1,
      "date": "YYYY-MM-DD if stated",
      "topic": "topic for the week",
      "assignment_titles": ["titles of assignments due that week"]
    }
  ]
}

Rules:
- "assignments" is required; use an empty array when the document lists none.
- Omit optional fields you cannot determine rather than guessing.
- Express every grading weight as a fraction between 0 and 1 (e.g. 25% becomes 0.25).
- Never invent data that is not present in the document.`

// syllabusPromptTemplate prioritizes course metadata and grading weights.
const syllabusPromptTemplate = `You are extracting structured data from a course syllabus.

Prioritize, in order:
1. Course metadata: title, course code, instructor, semester, credit count.
2. The grading breakdown: every grading category and its percentage of the final grade, converted to a fraction.
3. Every assignment you can identify, with due dates, point values, and the grading category each belongs to.
4. Any week-by-week schedule the syllabus includes.

` + recordShapeInstructions + `

Syllabus text:
---
{{.DocumentText}}
---`

// schedulePromptTemplate prioritizes the week-by-week breakdown. Schedule
// handouts are not expected to carry grading weights.
const schedulePromptTemplate = `You are extracting structured data from a course schedule handout.

Prioritize, in order:
1. The week-by-week breakdown: week numbers, precise dates, and the topic covered each week.
2. Every assignment you can identify, with the exact due date whenever one is stated.

This kind of document usually has no grading breakdown; leave "grading_weights" as an empty array unless one is explicitly present. Course metadata is secondary; include it only when clearly stated.

` + recordShapeInstructions + `

Schedule text:
---
{{.DocumentText}}
---`

// promptData represents the data passed to an instruction template
type promptData struct {
	DocumentText string
}
